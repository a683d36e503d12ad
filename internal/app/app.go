// Package app wires configuration, storage, the AI bridge and the HTTP
// router into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/ai"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/api"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/config"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/export"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/version"
)

// App owns every long-lived dependency of the server.
type App struct {
	config     *config.Manager
	logger     *zap.Logger
	level      zap.AtomicLevel
	store      repository.Store
	cache      ai.Cache
	ai         *ai.Service
	rasterizer *export.PlaywrightRasterizer
	registry   *prometheus.Registry
	router     *gin.Engine
}

// New loads configuration from configPath and builds the application.
// Nothing listens until Serve or Run is called.
func New(ctx context.Context, configPath string) (*App, error) {
	mgr, err := config.Load(configPath, nil)
	if err != nil {
		return nil, err
	}
	return NewFromManager(ctx, mgr)
}

// NewFromManager builds the application from an already loaded config.
func NewFromManager(ctx context.Context, mgr *config.Manager) (*App, error) {
	cfg := mgr.Get()
	logger, level, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &App{config: mgr, logger: logger, level: level}
	mgr.OnChange(config.LevelUpdater(level, logger))

	if a.store, err = OpenStore(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if a.cache, err = NewCache(ctx, cfg, logger); err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if a.ai, err = NewAIService(cfg, a.cache, a.registerer(), logger); err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.Export.PNGEnabled {
		a.rasterizer = export.NewPlaywrightRasterizer(export.PlaywrightOptions{
			Install: cfg.Export.InstallBrowser,
			Timeout: cfg.Export.RenderTimeout,
		}, logger)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := api.Options{
		Store:        a.store,
		AI:           a.ai,
		Logger:       logger,
		Registry:     a.registry,
		MetricsPath:  cfg.Metrics.Path,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
	if a.rasterizer != nil {
		opts.Rasterizer = a.rasterizer
	}
	a.router = api.NewRouter(opts)

	mgr.Watch()
	return a, nil
}

func (a *App) registerer() prometheus.Registerer {
	if a.registry == nil {
		return nil
	}
	return a.registry
}

// NewCache picks Redis when enabled and an in-process cache otherwise.
func NewCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ai.Cache, error) {
	if !cfg.Redis.Enabled {
		return ai.NewMemoryCache(), nil
	}
	cache, err := ai.NewRedisCache(ctx, ai.RedisConfig{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("AI answers cached in Redis", zap.String("addr", cfg.Redis.Addr))
	return cache, nil
}

// NewAIService builds the suggestion service. Without an API key every
// answer comes from the heuristics.
func NewAIService(cfg *config.Config, cache ai.Cache, reg prometheus.Registerer, logger *zap.Logger) (*ai.Service, error) {
	policy, err := ai.ParseFailurePolicy(cfg.AI.OnFailure)
	if err != nil {
		return nil, err
	}
	var completer ai.Completer
	if cfg.AI.APIKey != "" {
		completer = ai.NewOpenAIClient(ai.OpenAIConfig{
			BaseURL:   cfg.AI.BaseURL,
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			Timeout:   cfg.AI.Timeout,
			Debug:     cfg.AI.Debug,
			UserAgent: version.UserAgent(),
		})
	} else {
		logger.Warn("no AI API key configured; suggestions use built-in heuristics")
	}
	return ai.NewService(completer, cache, ai.Options{
		OnFailure:  policy,
		CacheTTL:   cfg.AI.CacheTTL,
		Registerer: reg,
	}, logger), nil
}

// Config returns the current configuration.
func (a *App) Config() *config.Config { return a.config.Get() }

// Logger returns the process logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store returns the persistence backend.
func (a *App) Store() repository.Store { return a.store }

// AI returns the suggestion service.
func (a *App) AI() *ai.Service { return a.ai }

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler { return a.router }

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	addr := a.Config().Server.GetServerAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	cfg := a.Config().Server
	srv := &http.Server{
		Handler:           a.router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(a.logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("version", version.Short()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}

// Close releases the store, the cache and the browser.
func (a *App) Close() error {
	var err error
	if a.rasterizer != nil {
		err = multierr.Append(err, a.rasterizer.Close())
	}
	if c, ok := a.cache.(interface{ Close() error }); ok {
		err = multierr.Append(err, c.Close())
	}
	if a.store != nil {
		err = multierr.Append(err, a.store.Close())
	}
	_ = a.logger.Sync()
	return err
}
