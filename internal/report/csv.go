package report

import (
	"encoding/csv"
	"io"

	"github.com/AgusMolinaCode/stockly/internal/models"
)

// WriteCSV writes the holdings export: a header, one row per priced holding
// in snapshot order, a blank row and four summary rows. Monetary values have
// exactly two decimals.
func WriteCSV(w io.Writer, snapshot models.PerformanceSnapshot) error {
	cw := csv.NewWriter(w)

	rows := make([][]string, 0, len(snapshot.Holdings)+6)
	rows = append(rows, holdingsHeader)
	for _, h := range snapshot.Holdings {
		rows = append(rows, []string{
			h.Ticker,
			formatShares(h.Shares),
			fixed2(h.PurchasePrice),
			fixed2(h.CurrentPrice),
			fixed2(h.CurrentValue),
			fixed2(h.CostBasis),
			fixed2(h.GainLoss),
			fixed2(h.GainLossPercent),
			h.DateAdded.Format("2006-01-02"),
		})
	}

	totals := snapshot.Totals
	rows = append(rows,
		[]string{},
		[]string{"Total Current Value", fixed2(totals.CurrentValue)},
		[]string{"Total Cost Basis", fixed2(totals.CostBasis)},
		[]string{"Total Gain/Loss", fixed2(totals.GainLoss)},
		[]string{"Total Gain/Loss %", fixed2(totals.GainLossPercent)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
