package services

import "errors"

var (
	// ErrEmptyPortfolio indica que no hay ninguna tenencia guardada. Quien llama
	// muestra un estado vacío en lugar de un snapshot en cero.
	ErrEmptyPortfolio = errors.New("portfolio is empty")
	// ErrNoPricedHoldings indica que hay tenencias pero ninguna tiene precio
	ErrNoPricedHoldings = errors.New("no priced holdings")
	// ErrPriceUnavailable lo devuelve un PriceOracle que no puede cotizar un ticker
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrUpstream envuelve fallos de servicios externos (datos de mercado, modelo de lenguaje)
	ErrUpstream = errors.New("upstream unavailable")
)
