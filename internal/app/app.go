package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/config"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/db"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/handlers"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/httpserver"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/middleware"
)

// Serve runs the HTTP API until ctx is canceled or the process receives SIGINT/SIGTERM.
// The server is drained first, then queued moderation jobs.
func Serve(ctx context.Context, cfg config.Config) error {
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	m := metrics.New()
	deps, cleanup, err := buildDependencies(ctx, pool, cfg, m)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	handler := middleware.RequestLogger(logger)(mux)

	srv := httpserver.New(cfg.AppPort, handler, cfg.ServerTimeout)

	logger.Info("starting http server", "port", cfg.AppPort)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}
	if err := cleanup(shutdownCtx); err != nil {
		logger.Error("moderation dispatcher shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}

	return runErr
}
