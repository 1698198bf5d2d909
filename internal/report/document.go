package report

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	// MaxRecommendations is how many picks a document lists
	MaxRecommendations = 3
	// MaxRationaleRunes bounds the rationale shown per pick
	MaxRationaleRunes = 100

	Disclaimer = "This report is for educational purposes only and is not financial advice. " +
		"Market prices change constantly and past performance does not guarantee future results. " +
		"Consider speaking with a licensed financial advisor before making investment decisions."
)

// SummaryRow is one metric of the summary table
type SummaryRow struct {
	Metric string
	Value  string
}

// RecommendationItem is a pick as shown in the document
type RecommendationItem struct {
	Ticker     string
	Name       string
	Allocation string
	Rationale  string
}

// Document is the section model of an exported report, in display order
type Document struct {
	Title           string
	GeneratedAt     time.Time
	Summary         []SummaryRow
	HoldingsHeader  []string
	Holdings        [][]string
	Recommendations []RecommendationItem
	Disclaimer      string
}

var holdingsHeader = []string{
	"Ticker", "Shares", "Purchase Price", "Current Price", "Current Value",
	"Cost Basis", "Gain/Loss", "Gain/Loss %", "Date Added",
}

// BuildDocument lays out a snapshot and an optional list of picks.
// Only the first MaxRecommendations picks are included.
func BuildDocument(snapshot models.PerformanceSnapshot, picks []models.RecommendationPick) Document {
	totals := snapshot.Totals
	doc := Document{
		Title:       "Stockly Portfolio Report",
		GeneratedAt: snapshot.GeneratedAt,
		Summary: []SummaryRow{
			{Metric: "Total Current Value", Value: displayMoney(totals.CurrentValue)},
			{Metric: "Total Cost Basis", Value: displayMoney(totals.CostBasis)},
			{Metric: "Total Gain/Loss", Value: displayMoney(totals.GainLoss)},
			{Metric: "Total Gain/Loss %", Value: percentCell(totals.GainLossPercent)},
		},
		HoldingsHeader: holdingsHeader,
		Holdings:       make([][]string, 0, len(snapshot.Holdings)),
		Disclaimer:     Disclaimer,
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	for _, h := range snapshot.Holdings {
		doc.Holdings = append(doc.Holdings, []string{
			h.Ticker,
			formatShares(h.Shares),
			displayMoney(h.PurchasePrice),
			displayMoney(h.CurrentPrice),
			displayMoney(h.CurrentValue),
			displayMoney(h.CostBasis),
			displayMoney(h.GainLoss),
			percentCell(h.GainLossPercent),
			h.DateAdded.Format("2006-01-02"),
		})
	}

	for i, p := range picks {
		if i == MaxRecommendations {
			break
		}
		doc.Recommendations = append(doc.Recommendations, RecommendationItem{
			Ticker:     p.Ticker,
			Name:       p.Name,
			Allocation: p.Allocation,
			Rationale:  Truncate(p.Why, MaxRationaleRunes),
		})
	}
	return doc
}

// Truncate shortens s to n runes followed by "..." when it is longer
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Filename returns the attachment name for a report generated at t
func Filename(ext string, t time.Time) string {
	return fmt.Sprintf("stockly_portfolio_report_%s.%s", t.Format("20060102_150405"), ext)
}

func fixed2(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "N/A"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percentCell(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "N/A"
	}
	return fixed2(v) + "%"
}

// displayMoney rounds to the nearest cent; money.NewFromFloat truncates
func displayMoney(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "N/A"
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func formatShares(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
