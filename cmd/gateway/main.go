// cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ak736/GuardianX/internal/alerting"
	"github.com/ak736/GuardianX/internal/anomaly"
	"github.com/ak736/GuardianX/internal/api"
	"github.com/ak736/GuardianX/internal/auth"
	"github.com/ak736/GuardianX/internal/config"
	"github.com/ak736/GuardianX/internal/ingest"
	"github.com/ak736/GuardianX/internal/logging"
	"github.com/ak736/GuardianX/internal/seed"
	"github.com/ak736/GuardianX/internal/simulation"
	"github.com/ak736/GuardianX/internal/storage"
	"github.com/ak736/GuardianX/internal/websocket"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("gateway exited", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func openStore(cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		s, err := storage.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite alert log", zap.String("path", cfg.Storage.SQLitePath))
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("close sqlite store", zap.Error(err))
			}
		}, nil
	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}

func seedStore(ctx context.Context, cfg *config.Config, store storage.Store, logger *zap.Logger) error {
	if !cfg.Seed.Enabled {
		return nil
	}
	ds := seed.Default()
	if cfg.Seed.File != "" {
		var err error
		if ds, err = seed.Load(cfg.Seed.File); err != nil {
			return err
		}
	}
	sum, err := seed.Apply(ctx, store, ds)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("seed applied",
		zap.Int("infrastructure", sum.Infrastructure),
		zap.Int("sensors", sum.Sensors),
		zap.Int("alerts", sum.Alerts))
	return nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := seedStore(ctx, cfg, store, logger); err != nil {
		return err
	}

	hub := websocket.NewHub(logger.Named("websocket"))
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	detector := anomaly.NewDetector(cfg, store, logger.Named("anomaly"))
	alerter := alerting.NewAlerter(hub, logger.Named("alerting"))
	svc := ingest.NewService(store, detector, alerter, logger.Named("ingest"))
	engine := simulation.NewEngine(store, hub, cfg.Simulation, logger.Named("simulation"), clockwork.NewRealClock(), nil)

	apiHandler := api.NewAPIHandler(cfg, store, svc, engine, hub, auth.NewManager(cfg.Auth), logger.Named("api"))

	dataServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.DataPort),
		Handler:           api.SetupDataRouter(apiHandler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	// No write timeout: the UI server carries long-lived websocket connections.
	uiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.UIPort),
		Handler:           api.SetupUIRouter(apiHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	serve := func(name string, srv *http.Server) {
		g.Go(func() error {
			logger.Info("starting server", zap.String("server", name), zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}
	serve("data", dataServer)
	serve("ui", uiServer)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Runs halt before the hub stops.
		engine.Close()
		return errors.Join(dataServer.Shutdown(shutdownCtx), uiServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("servers gracefully stopped")
	return nil
}
