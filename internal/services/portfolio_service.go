package services

import (
	"context"

	"github.com/AgusMolinaCode/stockly/internal/models"
)

// HoldingsStore es el lado de lectura del repositorio de tenencias
type HoldingsStore interface {
	GetAll(ctx context.Context) map[string]models.Holding
}

// PortfolioService une el repositorio de tenencias, el agregador y el narrador
type PortfolioService struct {
	store       HoldingsStore
	performance *PerformanceService
	narrator    Narrator
}

func NewPortfolioService(store HoldingsStore, performance *PerformanceService, narrator Narrator) *PortfolioService {
	return &PortfolioService{
		store:       store,
		performance: performance,
		narrator:    narrator,
	}
}

// Snapshot cotiza las tenencias actuales. Devuelve ErrEmptyPortfolio si la
// cartera está vacía.
func (s *PortfolioService) Snapshot(ctx context.Context) (models.PerformanceSnapshot, error) {
	holdings := s.store.GetAll(ctx)
	if len(holdings) == 0 {
		return models.PerformanceSnapshot{}, ErrEmptyPortfolio
	}
	return s.performance.BuildSnapshot(ctx, holdings), nil
}

// Narrative explica el snapshot actual en lenguaje sencillo
func (s *PortfolioService) Narrative(ctx context.Context) (string, models.PerformanceSnapshot, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return "", snapshot, err
	}
	if snapshot.IsEmpty() {
		return "", snapshot, ErrNoPricedHoldings
	}
	text, err := s.narrator.Explain(ctx, snapshot)
	if err != nil {
		return "", snapshot, err
	}
	return text, snapshot, nil
}
