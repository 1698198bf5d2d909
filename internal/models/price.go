package models

import "time"

// PriceQuote asocia un ticker con su precio actual. Available es false si el
// oráculo no pudo obtener precio.
type PriceQuote struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// PricePoint es un precio de cierre dentro del historial reciente
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}
