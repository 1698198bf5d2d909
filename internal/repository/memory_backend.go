package repository

import (
	"context"
	"sync"

	"github.com/AgusMolinaCode/stockly/internal/models"
)

// MemoryBackend guarda el documento de tenencias en memoria
type MemoryBackend struct {
	mu       sync.RWMutex
	holdings map[string]models.Holding
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{holdings: make(map[string]models.Holding)}
}

func (b *MemoryBackend) Load(_ context.Context) (map[string]models.Holding, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return clone(b.holdings), nil
}

func (b *MemoryBackend) Save(_ context.Context, holdings map[string]models.Holding) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.holdings = clone(holdings)
	return nil
}
