package models

import "time"

// Holding representa la posición del usuario en un ticker
type Holding struct {
	Ticker        string    `json:"-"`
	Shares        float64   `json:"shares"`
	PurchasePrice float64   `json:"purchase_price"` // Costo por acción
	DateAdded     time.Time `json:"date_added"`
}

// CostBasis devuelve cantidad * precio de compra
func (h Holding) CostBasis() float64 {
	return h.Shares * h.PurchasePrice
}

// HoldingInput es el cuerpo que se acepta al agregar o editar una tenencia
type HoldingInput struct {
	Ticker        string  `json:"ticker"`
	Shares        float64 `json:"shares" binding:"required"`
	PurchasePrice float64 `json:"purchase_price" binding:"required"`
}
