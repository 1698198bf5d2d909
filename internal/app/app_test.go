package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AgusMolinaCode/stockly/internal/config"
	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticConfig(driver, path string) *config.Config {
	cfg := config.Default()
	cfg.Storage.Driver = driver
	cfg.Storage.Path = path
	cfg.Prices.Provider = "static"
	cfg.Prices.Static = map[string]float64{"AAPL": 150}
	cfg.LLM.Provider = "none"
	return cfg
}

func TestNew_EndToEnd(t *testing.T) {
	for _, tc := range []struct{ driver, path string }{
		{"memory", ""},
		{"json", filepath.Join(t.TempDir(), "portfolio.json")},
		{"sqlite3", filepath.Join(t.TempDir(), "db", "stockly.db")},
	} {
		t.Run(tc.driver, func(t *testing.T) {
			ctx := context.Background()
			a, err := New(ctx, staticConfig(tc.driver, tc.path))
			require.NoError(t, err)
			defer a.Close()

			_, err = a.Holdings.Upsert(ctx, "AAPL", 10, 100)
			require.NoError(t, err)
			_, err = a.Holdings.Upsert(ctx, "GHI", 5, 50)
			require.NoError(t, err)

			snapshot, err := a.Portfolio.Snapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1500.0, snapshot.Totals.CurrentValue)
			assert.Equal(t, []string{"GHI"}, snapshot.Excluded)

			// No language model configured: the template narrative answers
			text, _, err := a.Portfolio.Narrative(ctx)
			require.NoError(t, err)
			assert.Contains(t, text, "AAPL")

			picks, err := a.Recommender.Recommend(ctx, staticProfile())
			require.NoError(t, err)
			assert.Len(t, picks, 3)
		})
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), staticConfig("mongo", ""))
	assert.Error(t, err)
}

func staticProfile() models.InvestorProfile {
	return models.InvestorProfile{Goal: models.GoalRetirement, Risk: models.RiskMedium}
}
