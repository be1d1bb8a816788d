package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/config"
	"github.com/AdamBeresnev/bracket-engine/internal/db"
	"github.com/AdamBeresnev/bracket-engine/internal/logging"
	"github.com/AdamBeresnev/bracket-engine/internal/metrics"
	"github.com/AdamBeresnev/bracket-engine/internal/middleware"
	"github.com/AdamBeresnev/bracket-engine/internal/service"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	foundEnv := config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if !foundEnv {
		slog.Info("No .env file found, using environment variables")
	}
	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN is not set, admin login is disabled")
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return err
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	registry := prometheus.NewRegistry()
	m := metrics.NewService(registry)
	tournamentStore := store.NewTournamentStore(database)

	router := newRouter(routerDeps{
		sessions:    sessionManager,
		auth:        middleware.NewAdminAuth(sessionManager, cfg.AdminToken),
		tournaments: service.NewTournamentService(database, tournamentStore, m),
		teams:       service.NewTeamService(database, tournamentStore),
		matches:     service.NewMatchService(database, tournamentStore, m),
		metrics:     metrics.NewMetricsHandler(registry),
		corsOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", srv.Addr)
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

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
