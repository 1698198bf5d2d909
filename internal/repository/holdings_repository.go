package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/models"
)

var (
	// ErrInvalidHolding se devuelve cuando una escritura trae un ticker vacío o
	// cantidades o precios fuera de rango. El repositorio no cambia.
	ErrInvalidHolding = errors.New("invalid holding")
	// ErrHoldingNotFound lo devuelve Edit cuando el ticker no está en cartera
	ErrHoldingNotFound = errors.New("holding not found")
)

// Backend es el almacenamiento detrás de HoldingsRepository. Cada escritura
// reemplaza el documento completo.
type Backend interface {
	Load(ctx context.Context) (map[string]models.Holding, error)
	Save(ctx context.Context, holdings map[string]models.Holding) error
}

// HoldingsRepository guarda las tenencias del usuario por ticker en mayúsculas.
//
// Los errores de I/O se registran en el log y la operación no hace nada. Las
// escrituras no se sincronizan entre procesos, así que dos ediciones
// simultáneas del mismo ticker pueden perder una.
type HoldingsRepository struct {
	backend Backend
	now     func() time.Time
}

// NewHoldingsRepository crea un repositorio sobre backend
func NewHoldingsRepository(backend Backend) *HoldingsRepository {
	return &HoldingsRepository{
		backend: backend,
		now:     time.Now,
	}
}

// NormalizeTicker quita espacios y pasa el ticker a mayúsculas
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateHolding verifica que los valores de una tenencia sean válidos
func ValidateHolding(ticker string, shares, purchasePrice float64) error {
	if NormalizeTicker(ticker) == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidHolding)
	}
	if !isPositive(shares) {
		return fmt.Errorf("%w: shares must be a positive number up to %g, got %v", ErrInvalidHolding, maxQuantity, shares)
	}
	if !isPositive(purchasePrice) {
		return fmt.Errorf("%w: purchase price must be a positive number up to %g, got %v", ErrInvalidHolding, maxQuantity, purchasePrice)
	}
	return nil
}

// maxQuantity limita cantidad y precio de compra para que su producto se
// pueda mostrar en los reportes
const maxQuantity = 1e12

func isPositive(v float64) bool {
	return v > 0 && v <= maxQuantity && !math.IsNaN(v)
}

// GetAll devuelve todas las tenencias. Si falla la carga, se registra y devuelve un mapa vacío.
func (r *HoldingsRepository) GetAll(ctx context.Context) map[string]models.Holding {
	holdings, err := r.load(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load holdings", err)
		return map[string]models.Holding{}
	}
	return holdings
}

// Get devuelve una tenencia
func (r *HoldingsRepository) Get(ctx context.Context, ticker string) (models.Holding, bool) {
	h, ok := r.GetAll(ctx)[NormalizeTicker(ticker)]
	return h, ok
}

func (r *HoldingsRepository) load(ctx context.Context) (map[string]models.Holding, error) {
	holdings, err := r.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	if holdings == nil {
		holdings = map[string]models.Holding{}
	}
	return holdings, nil
}

// loadForWrite carga antes de escribir. Si falla no se guarda nada, porque
// guardar reemplaza el documento completo.
func (r *HoldingsRepository) loadForWrite(ctx context.Context, op, ticker string) (map[string]models.Holding, bool) {
	holdings, err := r.load(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load holdings, write skipped", err,
			"operation", op,
			"ticker", ticker,
		)
		return map[string]models.Holding{}, false
	}
	return holdings, true
}

// Upsert crea una tenencia con la fecha actual, o reemplaza cantidad y precio
// de compra de una existente conservando su fecha original.
// Devuelve el estado resultante, o el anterior si la escritura falló.
func (r *HoldingsRepository) Upsert(ctx context.Context, ticker string, shares, purchasePrice float64) (map[string]models.Holding, error) {
	if err := ValidateHolding(ticker, shares, purchasePrice); err != nil {
		return nil, err
	}
	ticker = NormalizeTicker(ticker)

	prior, ok := r.loadForWrite(ctx, "upsert", ticker)
	if !ok {
		return prior, nil
	}
	return r.upsert(ctx, prior, ticker, shares, purchasePrice, "upsert"), nil
}

// Edit reemplaza cantidad y precio de compra de un ticker en cartera
func (r *HoldingsRepository) Edit(ctx context.Context, ticker string, shares, purchasePrice float64) (map[string]models.Holding, error) {
	if err := ValidateHolding(ticker, shares, purchasePrice); err != nil {
		return nil, err
	}
	ticker = NormalizeTicker(ticker)

	prior, ok := r.loadForWrite(ctx, "edit", ticker)
	if !ok {
		return prior, nil
	}
	if _, held := prior[ticker]; !held {
		return nil, fmt.Errorf("%w: %s", ErrHoldingNotFound, ticker)
	}
	return r.upsert(ctx, prior, ticker, shares, purchasePrice, "edit"), nil
}

func (r *HoldingsRepository) upsert(ctx context.Context, prior map[string]models.Holding, ticker string, shares, purchasePrice float64, op string) map[string]models.Holding {
	next := clone(prior)

	holding := models.Holding{
		Ticker:        ticker,
		Shares:        shares,
		PurchasePrice: purchasePrice,
		DateAdded:     r.now().UTC(),
	}
	if existing, ok := prior[ticker]; ok {
		holding.DateAdded = existing.DateAdded
	}
	next[ticker] = holding

	return r.save(ctx, prior, next, op, ticker)
}

// Delete elimina el ticker si existe; si no existe no hace nada
func (r *HoldingsRepository) Delete(ctx context.Context, ticker string) map[string]models.Holding {
	ticker = NormalizeTicker(ticker)

	prior, ok := r.loadForWrite(ctx, "delete", ticker)
	if !ok {
		return prior
	}
	if _, held := prior[ticker]; !held {
		return prior
	}

	next := clone(prior)
	delete(next, ticker)
	return r.save(ctx, prior, next, "delete", ticker)
}

func (r *HoldingsRepository) save(ctx context.Context, prior, next map[string]models.Holding, op, ticker string) map[string]models.Holding {
	if err := r.backend.Save(ctx, next); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist holdings, keeping previous state", err,
			"operation", op,
			"ticker", ticker,
		)
		return prior
	}
	logger.Info(ctx, "Holdings updated", "operation", op, "ticker", ticker, "count", len(next))
	return next
}

func clone(in map[string]models.Holding) map[string]models.Holding {
	out := make(map[string]models.Holding, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
