package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AgusMolinaCode/stockly/internal/llm"
	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinInvestmentAmount = 100
	MaxInvestmentAmount = 10_000_000
)

// ParseInvestmentAmount accepts amounts such as "25,000" or "1500.75" within
// [100, 10,000,000] and truncates them to whole dollars. ok is false for
// anything else, which callers treat as "not specified".
func ParseInvestmentAmount(raw string) (amount float64, ok bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	if v < MinInvestmentAmount || v > MaxInvestmentAmount {
		return 0, false
	}
	return math.Trunc(v), true
}

// Recommender suggests stocks and ETFs for an investor profile
type Recommender interface {
	Recommend(ctx context.Context, profile models.InvestorProfile) ([]models.RecommendationPick, error)
}

const recommendationSystemPrompt = "You are a professional financial advisor providing clear, actionable investment advice. Always respond with valid JSON."

// RemoteRecommender asks a language model for exactly three picks
type RemoteRecommender struct {
	gen       llm.TextGenerator
	maxTokens int
}

func NewRemoteRecommender(gen llm.TextGenerator, maxTokens int) *RemoteRecommender {
	return &RemoteRecommender{gen: gen, maxTokens: maxTokens}
}

var titleCaser = cases.Title(language.English)

func humanize(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func recommendationPrompt(p models.InvestorProfile) string {
	amount := "Not specified"
	if p.InvestmentAmount > 0 {
		amount = strconv.FormatFloat(p.InvestmentAmount, 'f', 0, 64)
	}
	horizon := "Not specified"
	if p.TimeHorizon != "" {
		horizon = humanize(p.TimeHorizon)
	}
	custom := "None specified"
	if p.CustomGoal != "" {
		custom = p.CustomGoal
	}

	return fmt.Sprintf(`You are a professional financial advisor. Recommend exactly 3 stocks or ETFs for an investor.
Use the investor profile below to generate your recommendations.

INVESTOR PROFILE:
- Primary Goal: %s
- Risk Tolerance: %s
- Investment Amount: $%s
- Time Horizon: %s
- Custom Goal: %s

INSTRUCTIONS:
1. Recommend exactly 3 stocks or ETFs.
2. Each recommendation must include:
   - Ticker symbol (e.g., AAPL, VTI)
   - Full company or fund name
   - Detailed explanation ("why") including:
       * How it fits the investor's goal and risk tolerance
       * Expected growth over their time horizon
       * Key fundamentals or market trends
       * Pros and cons
       * Simple, beginner-friendly language
   - Risk level (Low/Medium/High)
   - Expected return timeframe
   - Suggested portfolio allocation (percentage)
3. Provide actionable advice where possible, e.g., how to include it in a diversified portfolio or what to monitor while holding it.
4. Consider investment amount and time horizon in your recommendations.
5. Include a mix of individual stocks and ETFs when appropriate.
6. Format your response as JSON exactly like this:

{
    "recommendations": [
        {
            "ticker": "TICKER",
            "name": "Full Name",
            "why": "Detailed beginner-friendly explanation with actionable advice",
            "risk_level": "Low/Medium/High",
            "timeframe": "Expected return timeframe",
            "allocation": "Suggested percentage of portfolio"
        }
    ]
}`, humanize(p.Goal), titleCaser.String(p.Risk), amount, horizon, custom)
}

type recommendationResponse struct {
	Recommendations []struct {
		Ticker     string `json:"ticker"`
		Name       string `json:"name"`
		Why        string `json:"why"`
		RiskLevel  string `json:"risk_level"`
		Timeframe  string `json:"timeframe"`
		Allocation string `json:"allocation"`
	} `json:"recommendations"`
}

// stripCodeFence removes a surrounding ```json fence some models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func parseRecommendations(out string) ([]models.RecommendationPick, error) {
	var r recommendationResponse
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &r); err != nil {
		return nil, fmt.Errorf("invalid recommendations json: %w", err)
	}
	if len(r.Recommendations) == 0 {
		return nil, fmt.Errorf("no recommendations in response")
	}

	picks := make([]models.RecommendationPick, 0, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		if rec.Ticker == "" || rec.Name == "" || rec.Why == "" {
			return nil, fmt.Errorf("recommendation %d is missing ticker, name or why", i)
		}
		pick := models.RecommendationPick{
			Ticker:     rec.Ticker,
			Name:       rec.Name,
			Why:        rec.Why,
			RiskLevel:  rec.RiskLevel,
			Timeframe:  rec.Timeframe,
			Allocation: rec.Allocation,
		}
		if pick.RiskLevel == "" {
			pick.RiskLevel = "Medium"
		}
		if pick.Timeframe == "" {
			pick.Timeframe = "Long-term"
		}
		if pick.Allocation == "" {
			pick.Allocation = "33%"
		}
		picks = append(picks, pick)
	}
	return picks, nil
}

func (r *RemoteRecommender) Recommend(ctx context.Context, profile models.InvestorProfile) ([]models.RecommendationPick, error) {
	out, err := r.gen.Complete(ctx, llm.Request{
		System:    recommendationSystemPrompt,
		Prompt:    recommendationPrompt(profile),
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	picks, err := parseRecommendations(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return ApplyDollarAmounts(picks, profile.InvestmentAmount), nil
}

// StaticRecommender answers from fixed tables
type StaticRecommender struct{}

func NewStaticRecommender() *StaticRecommender {
	return &StaticRecommender{}
}

var goalRecommendations = map[string][]models.RecommendationPick{
	models.GoalBuildWealth: {
		{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Why: "Broad market exposure for long-term wealth building", RiskLevel: "Medium", Timeframe: "Long-term", Allocation: "40%"},
		{Ticker: "AAPL", Name: "Apple Inc.", Why: "Blue-chip stock with strong fundamentals and growth potential", RiskLevel: "Medium", Timeframe: "Long-term", Allocation: "30%"},
		{Ticker: "VXUS", Name: "Vanguard Total International Stock ETF", Why: "International diversification for global growth", RiskLevel: "Medium", Timeframe: "Long-term", Allocation: "30%"},
	},
	models.GoalSaveForCollege: {
		{Ticker: "529", Name: "529 College Savings Plan", Why: "Tax-advantaged education savings with age-based allocation", RiskLevel: "Low-Medium", Timeframe: "Medium-term", Allocation: "50%"},
		{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Why: "Growth potential for college fund with moderate risk", RiskLevel: "Medium", Timeframe: "Medium-term", Allocation: "30%"},
		{Ticker: "BND", Name: "Vanguard Total Bond Market ETF", Why: "Stability and income for education savings", RiskLevel: "Low", Timeframe: "Medium-term", Allocation: "20%"},
	},
	models.GoalShortTerm: {
		{Ticker: "SGOV", Name: "iShares 0-3 Month Treasury Bond ETF", Why: "Ultra-short duration for capital preservation", RiskLevel: "Low", Timeframe: "Short-term", Allocation: "40%"},
		{Ticker: "VGSH", Name: "Vanguard Short-Term Treasury ETF", Why: "Short-term government bonds for stability", RiskLevel: "Low", Timeframe: "Short-term", Allocation: "35%"},
		{Ticker: "SHY", Name: "iShares 1-3 Year Treasury Bond ETF", Why: "Short-term treasury exposure with minimal risk", RiskLevel: "Low", Timeframe: "Short-term", Allocation: "25%"},
	},
	models.GoalRetirement: {
		{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Why: "Broad market exposure for retirement growth", RiskLevel: "Medium", Timeframe: "Long-term", Allocation: "50%"},
		{Ticker: "VXUS", Name: "Vanguard Total International Stock ETF", Why: "International diversification for retirement portfolio", RiskLevel: "Medium", Timeframe: "Long-term", Allocation: "30%"},
		{Ticker: "BND", Name: "Vanguard Total Bond Market ETF", Why: "Bond allocation for retirement stability", RiskLevel: "Low", Timeframe: "Long-term", Allocation: "20%"},
	},
	models.GoalEmergencyFund: {
		{Ticker: "SGOV", Name: "iShares 0-3 Month Treasury Bond ETF", Why: "Ultra-short duration for emergency liquidity", RiskLevel: "Low", Timeframe: "Immediate", Allocation: "50%"},
		{Ticker: "SHY", Name: "iShares 1-3 Year Treasury Bond ETF", Why: "Short-term treasury bonds for emergency fund", RiskLevel: "Low", Timeframe: "Short-term", Allocation: "30%"},
		{Ticker: "BIL", Name: "SPDR Bloomberg 1-3 Month T-Bill ETF", Why: "Treasury bills for emergency fund stability", RiskLevel: "Low", Timeframe: "Short-term", Allocation: "20%"},
	},
}

// Risk tolerance overrides the goal table at both ends
var riskRecommendations = map[string][]models.RecommendationPick{
	models.RiskLow: {
		{Ticker: "BND", Name: "Vanguard Total Bond Market ETF", Why: "Conservative bond allocation for low risk tolerance", RiskLevel: "Low", Timeframe: "Medium-term", Allocation: "40%"},
		{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Why: "Broad market exposure with lower risk", RiskLevel: "Low-Medium", Timeframe: "Long-term", Allocation: "35%"},
		{Ticker: "VTEB", Name: "Vanguard Tax-Exempt Bond ETF", Why: "Tax-free municipal bonds for conservative investors", RiskLevel: "Low", Timeframe: "Medium-term", Allocation: "25%"},
	},
	models.RiskHigh: {
		{Ticker: "QQQ", Name: "Invesco QQQ Trust", Why: "Technology-heavy ETF for aggressive growth", RiskLevel: "High", Timeframe: "Long-term", Allocation: "40%"},
		{Ticker: "ARKK", Name: "ARK Innovation ETF", Why: "Innovation-focused ETF for high growth potential", RiskLevel: "High", Timeframe: "Long-term", Allocation: "30%"},
		{Ticker: "VTI", Name: "Vanguard Total Stock Market ETF", Why: "Broad market exposure for aggressive investors", RiskLevel: "Medium-High", Timeframe: "Long-term", Allocation: "30%"},
	},
}

func (*StaticRecommender) Recommend(_ context.Context, profile models.InvestorProfile) ([]models.RecommendationPick, error) {
	table, ok := riskRecommendations[profile.Risk]
	if !ok {
		table, ok = goalRecommendations[profile.Goal]
		if !ok {
			table = goalRecommendations[models.GoalBuildWealth]
		}
	}

	picks := make([]models.RecommendationPick, len(table))
	copy(picks, table)
	return ApplyDollarAmounts(picks, profile.InvestmentAmount), nil
}

// allocationFraction parses "40%" or "40" into 0.40
func allocationFraction(allocation string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(allocation), "%"))
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d.Div(decimal.NewFromInt(100)), true
}

// ApplyDollarAmounts sets each pick's dollar amount from its allocation.
// Picks with an unparseable allocation get an equal share of the amount; the
// allocation text is left as given. A zero amount yields zero everywhere.
func ApplyDollarAmounts(picks []models.RecommendationPick, amount float64) []models.RecommendationPick {
	if len(picks) == 0 {
		return picks
	}
	total := decimal.NewFromFloat(amount)
	equal := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(picks))))

	for i := range picks {
		if amount <= 0 {
			picks[i].DollarAmount = 0
			continue
		}
		fraction, ok := allocationFraction(picks[i].Allocation)
		if !ok {
			fraction = equal
		}
		picks[i].DollarAmount = total.Mul(fraction).Round(2).InexactFloat64()
	}
	return picks
}

type recommenderWithFallback struct {
	primary  Recommender
	fallback Recommender
}

var _ Recommender = (*recommenderWithFallback)(nil)

// RecommenderWithFallback returns a Recommender that logs the primary's
// failure and answers with fallback instead
func RecommenderWithFallback(primary, fallback Recommender) Recommender {
	return &recommenderWithFallback{primary: primary, fallback: fallback}
}

func (r *recommenderWithFallback) Recommend(ctx context.Context, profile models.InvestorProfile) ([]models.RecommendationPick, error) {
	picks, err := r.primary.Recommend(ctx, profile)
	if err == nil {
		return picks, nil
	}
	logger.WarnWithErr(ctx, "Recommendation generation failed, using static picks", err,
		"goal", profile.Goal,
		"risk", profile.Risk,
	)
	return r.fallback.Recommend(ctx, profile)
}

// NormalizeProfile fills the defaults used by the goals form
func NormalizeProfile(p models.InvestorProfile) models.InvestorProfile {
	p.Goal = strings.ToLower(strings.TrimSpace(p.Goal))
	p.Risk = strings.ToLower(strings.TrimSpace(p.Risk))
	p.CustomGoal = strings.TrimSpace(p.CustomGoal)
	p.TimeHorizon = strings.TrimSpace(p.TimeHorizon)
	if p.Goal == "" {
		p.Goal = models.GoalBuildWealth
	}
	if p.Risk == "" {
		p.Risk = models.RiskMedium
	}
	return p
}
