package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AgusMolinaCode/stockly/internal/logger"
	routes "github.com/AgusMolinaCode/stockly/internal/server"
)

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	router := routes.NewRouter(a.Handlers(), a.Config.Server.AllowOrigins)

	a.PriceUpdater.Start(ctx)
	defer a.PriceUpdater.Stop()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server listening", "port", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
