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

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/roomquote/internal/config"
	"github.com/Simplici0/roomquote/internal/db"
	"github.com/Simplici0/roomquote/internal/graceful"
	"github.com/Simplici0/roomquote/internal/logging"
	"github.com/Simplici0/roomquote/internal/metrics"
	"github.com/Simplici0/roomquote/internal/migrations"
	"github.com/Simplici0/roomquote/internal/pricing"
	"github.com/Simplici0/roomquote/internal/seed"
	"github.com/Simplici0/roomquote/internal/store"
)

type server struct {
	log     *slog.Logger
	store   *store.Store
	engine  *pricing.Engine
	metrics *metrics.Metrics
	now     func() time.Time
}

func newServer(log *slog.Logger, st *store.Store, m *metrics.Metrics) *server {
	return &server{
		log:     log,
		store:   st,
		engine:  pricing.NewEngine(st),
		metrics: m,
		now:     time.Now,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logging.Fatal(log, "failed to open database", "error", err, "path", cfg.DBPath)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database.DB); err != nil {
			logging.Fatal(log, "failed to run database migrations", "error", err)
		}
	}

	catalog, err := seed.LoadCatalog(cfg.SeedFile)
	if err != nil {
		logging.Fatal(log, "failed to load seed file", "error", err, "path", cfg.SeedFile)
	}
	stats, err := seed.Run(ctx, database, catalog)
	if err != nil {
		logging.Fatal(log, "failed to seed database", "error", err)
	}
	log.Info("database seeded", "inserts", stats.Inserts, "updates", stats.Updates)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	srv := newServer(log, store.New(database, log, cfg.HistoryLimit), m)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal(log, "server stopped", "error", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The database is closed by the deferred Close once requests have drained.
	<-graceful.Shutdown(sigCtx, cfg.ShutdownTimeout, map[string]graceful.Operation{
		"http server": httpServer.Shutdown,
	}, log)
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/quotes/calculate", s.handleQuoteCalculate)
		r.Post("/quotes", s.handleQuoteSave)
		r.Get("/quotes", s.handleQuotesList)
		r.Get("/quotes/{id}", s.handleQuoteDetail)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
		r.Get("/quotes/{id}/xlsx", s.handleQuoteWorkbook)
		r.Patch("/quotes/{id}/converted", s.handleQuoteConverted)
		r.Get("/analytics", s.handleAnalytics)

		r.Get("/rooms", s.handleRoomsList)
		r.Post("/rooms", s.handleRoomUpsert)
		r.Post("/rooms/import", s.handleRoomsImport)
		r.Get("/employees", s.handleEmployeesList)
		r.Post("/employees", s.handleEmployeeUpsert)
		r.Get("/extras", s.handleExtrasList)
		r.Post("/extras", s.handleExtraUpsert)
		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsUpdate)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
