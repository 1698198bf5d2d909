package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AgusMolinaCode/stockly/internal/llm"
	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/models"
)

// Narrator explains a performance snapshot in plain language
type Narrator interface {
	Explain(ctx context.Context, snapshot models.PerformanceSnapshot) (string, error)
}

// Sentiment thresholds on the total gain/loss percentage
const (
	positiveThreshold = 2.0
	negativeThreshold = -2.0
)

const narrativeSystemPrompt = "You are a friendly financial educator who explains investment performance to beginners in clear, simple language."

// RemoteNarrator asks a language model for the explanation
type RemoteNarrator struct {
	gen       llm.TextGenerator
	maxTokens int
}

func NewRemoteNarrator(gen llm.TextGenerator, maxTokens int) *RemoteNarrator {
	return &RemoteNarrator{gen: gen, maxTokens: maxTokens}
}

type holdingSummary struct {
	Ticker          string  `json:"ticker"`
	PurchasePrice   float64 `json:"purchase_price"`
	CurrentPrice    float64 `json:"current_price"`
	GainLossPercent float64 `json:"gain_loss_percent"`
	GainLoss        float64 `json:"gain_loss"`
}

type totalsSummary struct {
	CurrentValue    float64 `json:"total_current_value"`
	CostBasis       float64 `json:"total_cost_basis"`
	GainLoss        float64 `json:"total_gain_loss"`
	GainLossPercent float64 `json:"total_gain_loss_percent"`
}

func narrativePrompt(snapshot models.PerformanceSnapshot) (string, error) {
	summaries := make([]holdingSummary, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		summaries = append(summaries, holdingSummary{
			Ticker:          h.Ticker,
			PurchasePrice:   round2(h.PurchasePrice),
			CurrentPrice:    round2(h.CurrentPrice),
			GainLossPercent: round2(h.GainLossPercent),
			GainLoss:        round2(h.GainLoss),
		})
	}
	totals := totalsSummary{
		CurrentValue:    round2(snapshot.Totals.CurrentValue),
		CostBasis:       round2(snapshot.Totals.CostBasis),
		GainLoss:        round2(snapshot.Totals.GainLoss),
		GainLossPercent: round2(snapshot.Totals.GainLossPercent),
	}

	hb, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", err
	}
	tb, err := json.MarshalIndent(totals, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Explain how this investment portfolio is performing.

HOLDINGS:
%s

PORTFOLIO TOTALS:
%s

INSTRUCTIONS:
1. Write 2-3 short paragraphs in plain, jargon-free language for a beginner investor.
2. Summarize the overall result, then mention the best and worst performers.
3. Keep it under 200 words and do not give buy or sell advice.`, hb, tb), nil
}

func (n *RemoteNarrator) Explain(ctx context.Context, snapshot models.PerformanceSnapshot) (string, error) {
	prompt, err := narrativePrompt(snapshot)
	if err != nil {
		return "", err
	}

	out, err := n.gen.Complete(ctx, llm.Request{
		System:    narrativeSystemPrompt,
		Prompt:    prompt,
		MaxTokens: n.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty narrative", ErrUpstream)
	}
	return out, nil
}

// FallbackNarrator builds a fixed three-sentence summary without any
// external call
type FallbackNarrator struct{}

func NewFallbackNarrator() *FallbackNarrator {
	return &FallbackNarrator{}
}

// Sentiment classifies a total gain/loss percentage as positive, negative or neutral
func Sentiment(totalPercent float64) string {
	switch {
	case totalPercent > positiveThreshold:
		return "positive"
	case totalPercent < negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// extremes returns the records with the largest and smallest gain/loss
// percentage. Ties keep the first record in snapshot order.
func extremes(records []models.HoldingPerformance) (best, worst models.HoldingPerformance) {
	best, worst = records[0], records[0]
	for _, r := range records[1:] {
		if r.GainLossPercent > best.GainLossPercent {
			best = r
		}
		if r.GainLossPercent < worst.GainLossPercent {
			worst = r
		}
	}
	return best, worst
}

func (*FallbackNarrator) Explain(_ context.Context, snapshot models.PerformanceSnapshot) (string, error) {
	if snapshot.IsEmpty() {
		return "", ErrNoPricedHoldings
	}

	totals := snapshot.Totals
	var opening string
	switch Sentiment(totals.GainLossPercent) {
	case "positive":
		opening = fmt.Sprintf("Your portfolio is doing well: it is up %s overall, a gain of %s on the %s you invested.",
			FormatPercent(totals.GainLossPercent), FormatMoney(totals.GainLoss), FormatMoney(totals.CostBasis))
	case "negative":
		opening = fmt.Sprintf("Your portfolio is going through a rough patch: it is down %s overall, a loss of %s on the %s you invested.",
			formatAbsPercent(totals.GainLossPercent), FormatMoney(-totals.GainLoss), FormatMoney(totals.CostBasis))
	default:
		opening = fmt.Sprintf("Your portfolio is holding steady at %s overall, now worth %s against the %s you invested.",
			FormatPercent(totals.GainLossPercent), FormatMoney(totals.CurrentValue), FormatMoney(totals.CostBasis))
	}

	best, worst := extremes(snapshot.Holdings)
	return strings.Join([]string{
		opening,
		fmt.Sprintf("Your strongest holding is %s at %s (%s).", best.Ticker, FormatPercent(best.GainLossPercent), FormatMoney(best.GainLoss)),
		fmt.Sprintf("Your weakest holding is %s at %s (%s), and short-term swings like this are normal for long-term investors.", worst.Ticker, FormatPercent(worst.GainLossPercent), FormatMoney(worst.GainLoss)),
	}, " "), nil
}

// narratorWithFallback delegates to fallback whenever primary fails
type narratorWithFallback struct {
	primary  Narrator
	fallback Narrator
}

var _ Narrator = (*narratorWithFallback)(nil)

// NarratorWithFallback returns a Narrator that logs the primary's failure
// and answers with fallback instead
func NarratorWithFallback(primary, fallback Narrator) Narrator {
	return &narratorWithFallback{primary: primary, fallback: fallback}
}

func (n *narratorWithFallback) Explain(ctx context.Context, snapshot models.PerformanceSnapshot) (string, error) {
	text, err := n.primary.Explain(ctx, snapshot)
	if err == nil {
		return text, nil
	}
	logger.WarnWithErr(ctx, "Narrative generation failed, using template", err, "holdings", len(snapshot.Holdings))
	return n.fallback.Explain(ctx, snapshot)
}
