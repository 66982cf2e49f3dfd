package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/redisstore"
	"github.com/goliatone/go-dashboard-builder/internal/config"
	"github.com/goliatone/go-dashboard-builder/pkg/analytics"
	"github.com/goliatone/go-dashboard-builder/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("dashboard server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProductionConfig().Build()
	}
	return zap.NewDevelopmentConfig().Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	app, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	admin := &http.Server{Addr: cfg.AdminAddr, Handler: app.adminMux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 2)
	go func() {
		logger.Info("dashboard api listening", zap.String("addr", cfg.Addr), zap.String("base_path", cfg.BasePath))
		errCh <- app.server.Serve(cfg.Addr)
	}()
	go func() {
		logger.Info("dashboard admin listening", zap.String("addr", cfg.AdminAddr))
		if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var errs error
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("shutdown api: %w", err))
	}
	if err := admin.Shutdown(shutdownCtx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("shutdown admin: %w", err))
	}
	return errs
}

type application struct {
	server    router.Server[*fiber.App]
	adminMux  *http.ServeMux
	broadcast *dashboard.BroadcastHook
	closers   []func() error
}

func (a *application) close() {
	a.broadcast.Close()
	for _, c := range a.closers {
		_ = c()
	}
}

func build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	catalog, err := dashboard.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if cfg.ManifestDir != "" {
		docs, err := catalog.LoadManifestDir(cfg.ManifestDir)
		if err != nil {
			return nil, fmt.Errorf("manifests: %w", err)
		}
		logger.Info("loaded widget manifests", zap.Int("count", len(docs)), zap.String("dir", cfg.ManifestDir))
	}

	prom, err := metrics.NewPrometheusTelemetry(nil)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	telemetry := dashboard.MultiTelemetry{dashboard.ZapTelemetry{Logger: logger}, prom}

	app := &application{broadcast: dashboard.NewBroadcastHook(32)}
	hooks := dashboard.MultiHook{app.broadcast, prom}

	var store dashboard.KeyValueStore
	switch cfg.Store {
	case config.StoreFile:
		fileStore, err := dashboard.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		store = fileStore
	case config.StoreRedis:
		redisStore, err := redisstore.NewFromURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := redisStore.Ping(ctx); err != nil {
			_ = redisStore.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.closers = append(app.closers, redisStore.Close)
		hooks = append(hooks, &dashboard.PublisherHook{Publisher: redisStore, Channel: cfg.RedisChannel})
		store = redisStore
	default:
		store = dashboard.NewMemoryStore()
	}

	mock := analytics.NewMockClient(nil)
	var source dashboard.DataSource = analytics.NewDataSource(mock, nil)
	if cfg.AnalyticsURL != "" {
		client, err := analytics.NewHTTPClient(analytics.HTTPConfig{BaseURL: cfg.AnalyticsURL, APIKey: cfg.AnalyticsKey})
		if err != nil {
			return nil, err
		}
		source = analytics.NewDataSource(client, nil)
	}

	service := dashboard.NewService(dashboard.Options{
		Catalog:       catalog,
		Layouts:       dashboard.NewLayoutRegistry(),
		Persistence:   dashboard.NewPersistenceAdapter(store, dashboard.WithAdapterLogger(logger)),
		StrictConfig:  cfg.StrictConfig,
		RefreshHook:   hooks,
		Telemetry:     telemetry,
		Logger:        logger,
		DataSource:    source,
		DataCacheTTL:  cfg.DataCacheTTL,
		InitialLayout: cfg.InitialLayout,
	})
	if service.Restore(ctx) {
		logger.Info("restored saved layouts", zap.Int("count", len(service.Layouts().SavedLayouts())))
	}

	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  service,
		Renderer: dashboard.NewEChartsRenderer(),
		Logger:   logger,
	})
	handlers := httpapi.NewHandlers(service, controller, telemetry)

	app.server = router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     app.server.Router(),
		Controller: controller,
		API:        handlers,
		Broadcast:  app.broadcast,
		BasePath:   cfg.BasePath,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	app.adminMux = http.NewServeMux()
	app.adminMux.Handle("GET "+cfg.MetricsPath, prom.Handler())
	app.adminMux.HandleFunc("GET /events", app.broadcast.ServeSSE)
	app.adminMux.HandleFunc("GET /events/ws", app.broadcast.ServeWebSocket)
	app.adminMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handlers.Register(app.adminMux, "/v1")
	return app, nil
}
