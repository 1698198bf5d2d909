package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/AgusMolinaCode/stockly/internal/llm"
	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func snapshotWithTotalPercent(pct float64) models.PerformanceSnapshot {
	return models.PerformanceSnapshot{
		Holdings: []models.HoldingPerformance{
			{Ticker: "AAPL", GainLossPercent: pct, GainLoss: pct * 10},
			{Ticker: "VTI", GainLossPercent: pct / 2, GainLoss: pct * 5},
		},
		Totals: models.PortfolioTotals{
			CurrentValue:    1000 + pct*10,
			CostBasis:       1000,
			GainLoss:        pct * 10,
			GainLossPercent: pct,
		},
	}
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, "positive", Sentiment(5))
	assert.Equal(t, "negative", Sentiment(-3))
	assert.Equal(t, "neutral", Sentiment(1))
	assert.Equal(t, "neutral", Sentiment(2))
	assert.Equal(t, "neutral", Sentiment(-2))
}

func TestFallbackNarrator_Branches(t *testing.T) {
	n := NewFallbackNarrator()
	ctx := context.Background()

	positive, err := n.Explain(ctx, snapshotWithTotalPercent(5))
	require.NoError(t, err)
	assert.Contains(t, positive, "doing well")
	assert.Contains(t, positive, "+5.00%")

	negative, err := n.Explain(ctx, snapshotWithTotalPercent(-3))
	require.NoError(t, err)
	assert.Contains(t, negative, "rough patch")
	assert.Contains(t, negative, "down 3.00%")

	neutral, err := n.Explain(ctx, snapshotWithTotalPercent(1))
	require.NoError(t, err)
	assert.Contains(t, neutral, "holding steady")

	for _, text := range []string{positive, negative, neutral} {
		assert.Equal(t, 3, strings.Count(text, ". ")+1)
	}
}

func TestFallbackNarrator_NamesExtremes(t *testing.T) {
	snapshot := models.PerformanceSnapshot{
		Holdings: []models.HoldingPerformance{
			{Ticker: "AAPL", GainLossPercent: 50, GainLoss: 500},
			{Ticker: "GHI", GainLossPercent: -20, GainLoss: -100},
			{Ticker: "VTI", GainLossPercent: 50, GainLoss: 200},
		},
		Totals: models.PortfolioTotals{GainLossPercent: 25, GainLoss: 600, CostBasis: 2400, CurrentValue: 3000},
	}

	text, err := NewFallbackNarrator().Explain(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Contains(t, text, "strongest holding is AAPL")
	assert.Contains(t, text, "weakest holding is GHI")
	assert.Contains(t, text, "$2,400.00")
}

func TestFallbackNarrator_RequiresRecords(t *testing.T) {
	_, err := NewFallbackNarrator().Explain(context.Background(), models.PerformanceSnapshot{})
	assert.ErrorIs(t, err, ErrNoPricedHoldings)
}

func TestRemoteNarrator_TrimsOutput(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.MaxTokens == 500 &&
			strings.Contains(req.Prompt, `"ticker": "AAPL"`) &&
			strings.Contains(req.Prompt, `"total_gain_loss_percent": 5`)
	})).Return("\n  Your portfolio grew.  \n", nil)

	text, err := NewRemoteNarrator(gen, 500).Explain(context.Background(), snapshotWithTotalPercent(5))
	require.NoError(t, err)
	assert.Equal(t, "Your portfolio grew.", text)
	gen.AssertExpectations(t)
}

func TestNarrativePrompt_RoundsToCents(t *testing.T) {
	prompt, err := narrativePrompt(models.PerformanceSnapshot{
		Holdings: []models.HoldingPerformance{{Ticker: "VTI", CurrentPrice: 123.456789, GainLossPercent: 3.14159}},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "123.46")
	assert.Contains(t, prompt, "3.14")
	assert.NotContains(t, prompt, "3.14159")
}

func TestNarratorWithFallback(t *testing.T) {
	ctx := context.Background()
	snapshot := snapshotWithTotalPercent(5)

	failing := new(MockTextGenerator)
	failing.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("timeout"))
	n := NarratorWithFallback(NewRemoteNarrator(failing, 500), NewFallbackNarrator())

	text, err := n.Explain(ctx, snapshot)
	require.NoError(t, err)
	assert.Contains(t, text, "doing well")

	empty := new(MockTextGenerator)
	empty.On("Complete", mock.Anything, mock.Anything).Return("   ", nil)
	n = NarratorWithFallback(NewRemoteNarrator(empty, 500), NewFallbackNarrator())

	text, err = n.Explain(ctx, snapshot)
	require.NoError(t, err)
	assert.Contains(t, text, "doing well")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,500.00", FormatMoney(1500))
	assert.Equal(t, "+5.25%", FormatPercent(5.249999))
	assert.Equal(t, "-3.00%", FormatPercent(-3))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "N/A", FormatMoney(math.Inf(1)))
	assert.Equal(t, "N/A", FormatPercent(math.NaN()))
}
