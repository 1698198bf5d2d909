package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/models"
)

// FileBackend guarda las tenencias como un único documento JSON:
//
//	{"AAPL": {"shares": 10, "purchase_price": 100, "date_added": "2024-05-01T10:00:00Z"}}
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

type fileRecord struct {
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	DateAdded     string  `json:"date_added"`
}

// Las fechas de versiones anteriores no tienen zona y pueden traer microsegundos
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDateAdded(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date_added %q", s)
}

// Load lee el documento; si el archivo no existe la cartera está vacía
func (b *FileBackend) Load(_ context.Context) (map[string]models.Holding, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]models.Holding{}, nil
		}
		return nil, err
	}

	records := make(map[string]fileRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", b.path, err)
	}

	holdings := make(map[string]models.Holding, len(records))
	for ticker, rec := range records {
		added, err := parseDateAdded(rec.DateAdded)
		if err != nil {
			return nil, fmt.Errorf("holding %s: %w", ticker, err)
		}
		holdings[ticker] = models.Holding{
			Ticker:        ticker,
			Shares:        rec.Shares,
			PurchasePrice: rec.PurchasePrice,
			DateAdded:     added,
		}
	}
	return holdings, nil
}

// Save sobrescribe el documento escribiendo primero un archivo temporal y renombrándolo
func (b *FileBackend) Save(_ context.Context, holdings map[string]models.Holding) error {
	records := make(map[string]fileRecord, len(holdings))
	for ticker, h := range holdings {
		records[ticker] = fileRecord{
			Shares:        h.Shares,
			PurchasePrice: h.PurchasePrice,
			DateAdded:     h.DateAdded.Format(time.RFC3339Nano),
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}
