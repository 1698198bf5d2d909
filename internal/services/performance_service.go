package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/models"
)

// maxAmount acota cualquier importe del snapshot para que quepa en
// centavos sin desbordar int64
const maxAmount = 1e15

// PerformanceService cotiza las tenencias y calcula ganancias/pérdidas
type PerformanceService struct {
	oracle PriceOracle
	now    func() time.Time
}

func NewPerformanceService(oracle PriceOracle) *PerformanceService {
	return &PerformanceService{oracle: oracle, now: time.Now}
}

// BuildSnapshot consulta un precio por tenencia. Las tenencias sin precio, o con
// importes fuera de rango, quedan fuera de los registros y totales y se listan
// en Excluded. Los registros se ordenan por ticker.
func (s *PerformanceService) BuildSnapshot(ctx context.Context, holdings map[string]models.Holding) models.PerformanceSnapshot {
	ctx, span := logger.StartSpan(ctx, "performance.BuildSnapshot")
	defer span.End()

	tickers := make([]string, 0, len(holdings))
	for ticker := range holdings {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	snapshot := models.PerformanceSnapshot{
		GeneratedAt: s.now(),
		Holdings:    []models.HoldingPerformance{},
		Excluded:    []string{},
	}

	for _, ticker := range tickers {
		h := holdings[ticker]
		price, err := s.oracle.Quote(ctx, ticker)
		if err != nil {
			logger.WarnWithErr(ctx, "Excluding holding without price", err, "ticker", ticker)
			snapshot.Excluded = append(snapshot.Excluded, ticker)
			continue
		}

		record := models.HoldingPerformance{
			Ticker:        ticker,
			Shares:        h.Shares,
			PurchasePrice: h.PurchasePrice,
			CurrentPrice:  price,
			CurrentValue:  h.Shares * price,
			CostBasis:     h.CostBasis(),
			DateAdded:     h.DateAdded,
		}
		record.GainLoss = record.CurrentValue - record.CostBasis
		record.GainLossPercent = percentOf(record.GainLoss, record.CostBasis)

		if !withinRange(record.CurrentValue, record.CostBasis,
			snapshot.Totals.CurrentValue+record.CurrentValue,
			snapshot.Totals.CostBasis+record.CostBasis,
			record.GainLossPercent) {
			logger.Warn(ctx, "Excluding holding with out of range amounts",
				"ticker", ticker,
				"current_value", record.CurrentValue,
				"cost_basis", record.CostBasis,
			)
			snapshot.Excluded = append(snapshot.Excluded, ticker)
			continue
		}

		snapshot.Holdings = append(snapshot.Holdings, record)
		snapshot.Totals.CurrentValue += record.CurrentValue
		snapshot.Totals.CostBasis += record.CostBasis
	}

	snapshot.Totals.GainLoss = snapshot.Totals.CurrentValue - snapshot.Totals.CostBasis
	snapshot.Totals.GainLossPercent = percentOf(snapshot.Totals.GainLoss, snapshot.Totals.CostBasis)

	logger.Debug(ctx, "Snapshot built",
		"priced", len(snapshot.Holdings),
		"excluded", len(snapshot.Excluded),
		"total_value", snapshot.Totals.CurrentValue,
	)
	return snapshot
}

func withinRange(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxAmount {
			return false
		}
	}
	return true
}

func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return (part / whole) * 100
}
