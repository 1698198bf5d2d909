package services

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders a dollar amount rounded to the cent, e.g. "$1,234.56"
func FormatMoney(amount float64) string {
	if !finite(amount) {
		return "N/A"
	}
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercent renders a percentage with sign and two decimals, e.g. "+5.25%"
func FormatPercent(p float64) string {
	if !finite(p) {
		return "N/A"
	}
	d := decimal.NewFromFloat(p).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func round2(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatAbsPercent(p float64) string {
	if !finite(p) {
		return "N/A"
	}
	return decimal.NewFromFloat(p).Round(2).Abs().StringFixed(2) + "%"
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
