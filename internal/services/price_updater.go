package services

import (
	"context"
	"sync"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/logger"
)

// PriceUpdater consulta periódicamente el precio de cada ticker en cartera
// para que la caché del oráculo esté caliente cuando llega una petición
type PriceUpdater struct {
	interval    time.Duration
	store       HoldingsStore
	oracle      PriceOracle
	isRunning   bool
	stopChan    chan struct{}
	done        chan struct{}
	mutex       sync.Mutex
	lastUpdated time.Time
	lastPriced  int
}

func NewPriceUpdater(interval time.Duration, store HoldingsStore, oracle PriceOracle) *PriceUpdater {
	return &PriceUpdater{
		interval: interval,
		store:    store,
		oracle:   oracle,
	}
}

// Start inicia el ciclo de actualización. Llamarlo dos veces no hace nada.
func (p *PriceUpdater) Start(ctx context.Context) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.isRunning || p.interval <= 0 {
		return
	}

	p.isRunning = true
	p.stopChan = make(chan struct{})
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.refresh(ctx)

		for {
			select {
			case <-ticker.C:
				p.refresh(ctx)
			case <-p.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info(ctx, "Price updater started", "interval", p.interval.String())
}

// Stop detiene el ciclo y espera a que termine la actualización en curso
func (p *PriceUpdater) Stop() {
	p.mutex.Lock()
	if !p.isRunning {
		p.mutex.Unlock()
		return
	}
	p.isRunning = false
	close(p.stopChan)
	done := p.done
	p.mutex.Unlock()

	<-done
	logger.Info(context.Background(), "Price updater stopped")
}

func (p *PriceUpdater) refresh(ctx context.Context) {
	holdings := p.store.GetAll(ctx)

	priced := 0
	for ticker := range holdings {
		if _, err := p.oracle.Quote(ctx, ticker); err != nil {
			logger.WarnWithErr(ctx, "Price refresh failed", err, "ticker", ticker)
			continue
		}
		priced++
	}

	p.mutex.Lock()
	p.lastUpdated = time.Now()
	p.lastPriced = priced
	p.mutex.Unlock()

	logger.Debug(ctx, "Price refresh completed", "holdings", len(holdings), "priced", priced)
}

// LastUpdated devuelve cuándo terminó la última actualización y cuántos tickers se cotizaron
func (p *PriceUpdater) LastUpdated() (time.Time, int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.lastUpdated, p.lastPriced
}
