package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "portfolio.json"))
	holdings, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "portfolio.json")
	b := NewFileBackend(path)

	added := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	in := map[string]models.Holding{
		"AAPL": {Ticker: "AAPL", Shares: 10, PurchasePrice: 100, DateAdded: added},
	}
	require.NoError(t, b.Save(ctx, in))

	out, err := b.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, out, "AAPL")
	assert.Equal(t, "AAPL", out["AAPL"].Ticker)
	assert.Equal(t, 10.0, out["AAPL"].Shares)
	assert.True(t, added.Equal(out["AAPL"].DateAdded))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileBackend_ReadsZonelessTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	doc := `{"VTI": {"shares": 3.5, "purchase_price": 220.1, "date_added": "2024-01-15T09:30:00.123456"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	out, err := NewFileBackend(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.5, out["VTI"].Shares)
	assert.Equal(t, 2024, out["VTI"].DateAdded.Year())
	assert.Equal(t, 15, out["VTI"].DateAdded.Day())
}

func TestFileBackend_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileBackend(path).Load(context.Background())
	assert.Error(t, err)

	// The repository degrades to an empty portfolio instead of failing
	repo := NewHoldingsRepository(NewFileBackend(path))
	assert.Empty(t, repo.GetAll(context.Background()))
}

func TestFileBackend_UnreadableDocumentIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portfolio.json")
	doc := `{"AAPL": {"shares": 10, "purchase_price": 100, "date_added": "2024-05-01T10:00:00Z"},
"MSFT": {"shares": 2, "purchase_price": 300, "date_added": "05/01/2024"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	repo := NewHoldingsRepository(NewFileBackend(path))
	state, err := repo.Upsert(ctx, "GOOG", 1, 2000)
	require.NoError(t, err)
	assert.NotContains(t, state, "GOOG")

	repo.Delete(ctx, "AAPL")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(raw))
}
