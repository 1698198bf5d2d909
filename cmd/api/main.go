package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AgusMolinaCode/stockly/internal/app"
	"github.com/AgusMolinaCode/stockly/internal/config"
	"github.com/AgusMolinaCode/stockly/internal/logger"
)

func main() {
	// Carga .env, config.yaml y las variables de entorno
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := logger.Init(logger.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Detailed: cfg.Logging.Detailed,
		Tracing:  cfg.Logging.Tracing,
		Output:   os.Stdout,
	}); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Server stopped", err)
	}
}
