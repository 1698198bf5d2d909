package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/config"
	"github.com/AgusMolinaCode/stockly/internal/database"
	"github.com/AgusMolinaCode/stockly/internal/llm"
	"github.com/AgusMolinaCode/stockly/internal/logger"
	"github.com/AgusMolinaCode/stockly/internal/middleware"
	"github.com/AgusMolinaCode/stockly/internal/repository"
	"github.com/AgusMolinaCode/stockly/internal/services"
)

// App wires storage, market data, the language model and the services built on them
type App struct {
	Config       *config.Config
	Holdings     *repository.HoldingsRepository
	Oracle       services.PriceOracle
	Portfolio    *services.PortfolioService
	Recommender  services.Recommender
	PriceUpdater *services.PriceUpdater

	db *sql.DB
}

// New builds an App from cfg. Close releases the database, if any.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, db, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	gen, err := llm.New(ctx, cfg)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	oracle := newOracle(cfg)
	holdings := repository.NewHoldingsRepository(backend)

	narrator := services.NarratorWithFallback(
		services.NewRemoteNarrator(gen, cfg.LLM.NarrativeMaxTokens),
		services.NewFallbackNarrator(),
	)
	recommender := services.RecommenderWithFallback(
		services.NewRemoteRecommender(gen, cfg.LLM.MaxTokens),
		services.NewStaticRecommender(),
	)

	a := &App{
		Config:       cfg,
		Holdings:     holdings,
		Oracle:       oracle,
		Portfolio:    services.NewPortfolioService(holdings, services.NewPerformanceService(oracle), narrator),
		Recommender:  recommender,
		PriceUpdater: services.NewPriceUpdater(time.Duration(cfg.Prices.RefreshSeconds)*time.Second, holdings, oracle),
		db:           db,
	}

	logger.Info(ctx, "Application initialized",
		"storage", cfg.Storage.Driver,
		"prices", cfg.Prices.Provider,
		"llm", cfg.LLM.Provider,
	)
	return a, nil
}

func newBackend(cfg *config.Config) (repository.Backend, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return repository.NewMemoryBackend(), nil, nil
	case "json":
		return repository.NewFileBackend(cfg.Storage.Path), nil, nil
	case "sqlite3":
		db, err := database.Open("sqlite3", cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		return repository.NewSQLBackend(db), db, nil
	case "postgres":
		db, err := database.Open("postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres database: %w", err)
		}
		return repository.NewSQLBackend(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func newOracle(cfg *config.Config) services.PriceOracle {
	if cfg.Prices.Provider == "static" {
		return services.NewStaticOracle(cfg.Prices.Static)
	}
	return services.NewYahooOracle(cfg.Prices.Endpoint, time.Duration(cfg.Prices.CacheSeconds)*time.Second)
}

// Handlers returns the HTTP handlers backed by this App
func (a *App) Handlers() *middleware.Handlers {
	h := middleware.NewHandlers(a.Holdings, a.Portfolio, a.Oracle, a.Recommender)
	h.PriceUpdater = a.PriceUpdater
	h.HistoryDays = a.Config.Prices.HistoryDays
	return h
}

func (a *App) Close() error {
	a.PriceUpdater.Stop()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
