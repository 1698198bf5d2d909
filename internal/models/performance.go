package models

import "time"

// HoldingPerformance es la línea de cada tenencia en un PerformanceSnapshot
type HoldingPerformance struct {
	Ticker          string    `json:"ticker"`
	Shares          float64   `json:"shares"`
	PurchasePrice   float64   `json:"purchase_price"`
	CurrentPrice    float64   `json:"current_price"`
	CurrentValue    float64   `json:"current_value"`     // Shares * CurrentPrice
	CostBasis       float64   `json:"cost_basis"`        // Shares * PurchasePrice
	GainLoss        float64   `json:"gain_loss"`         // CurrentValue - CostBasis
	GainLossPercent float64   `json:"gain_loss_percent"` // (GainLoss / CostBasis) * 100, 0 si CostBasis es 0
	DateAdded       time.Time `json:"date_added"`
}

// PortfolioTotals suma todas las tenencias cotizadas de un snapshot
type PortfolioTotals struct {
	CurrentValue    float64 `json:"total_current_value"`
	CostBasis       float64 `json:"total_cost_basis"`
	GainLoss        float64 `json:"total_gain_loss"`
	GainLossPercent float64 `json:"total_gain_loss_percent"`
}

// PerformanceSnapshot es un cálculo puntual sobre las tenencias y los precios en vivo.
// Se recalcula en cada petición y nunca se guarda.
type PerformanceSnapshot struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Holdings    []HoldingPerformance `json:"holdings"`
	Totals      PortfolioTotals      `json:"totals"`
	// Tickers en cartera que quedaron fuera por no tener precio válido
	Excluded []string `json:"excluded"`
}

// IsEmpty indica si el snapshot no tiene tenencias cotizadas
func (s PerformanceSnapshot) IsEmpty() bool {
	return len(s.Holdings) == 0
}
