package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lucrum/internal/common"
	"github.com/ternarybob/lucrum/internal/edgar"
	"github.com/ternarybob/lucrum/internal/handlers"
	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
	"github.com/ternarybob/lucrum/internal/services/alerts"
	"github.com/ternarybob/lucrum/internal/services/analyzer"
	"github.com/ternarybob/lucrum/internal/services/embeddings"
	"github.com/ternarybob/lucrum/internal/services/llm"
	"github.com/ternarybob/lucrum/internal/services/sources"
	badgerstore "github.com/ternarybob/lucrum/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager  interfaces.StorageManager
	ProviderFactory *llm.ProviderFactory
	AnalyzerService interfaces.AnalyzerService
	SourceResolver  interfaces.SourceResolver
	Thresholds      models.Thresholds

	// HTTP handlers
	AnalysisHandler *handlers.AnalysisHandler
	ReportHandler   *handlers.ReportHandler
	ProviderHandler *handlers.ProviderHandler
	StatusHandler   *handlers.StatusHandler

	maintenance *cron.Cron
}

// New initializes the application with all dependencies
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if cfg.Maintenance.Enabled {
		if err := app.startMaintenance(); err != nil {
			return nil, fmt.Errorf("failed to start maintenance scheduler: %w", err)
		}
	}

	logger.Info().
		Str("default_provider", cfg.LLM.DefaultProvider).
		Str("storage", cfg.Storage.Badger.Path).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the embedding service and the Badger store.
// Embeddings come first: the store needs an embedder to index reports.
func (a *App) initStorage(ctx context.Context) error {
	embedder, err := embeddings.NewService(ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}

	manager, err := badgerstore.NewManager(a.Logger, &a.Config.Storage.Badger, embedder)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	a.StorageManager = manager

	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes business services in dependency order.
func (a *App) initServices() error {
	a.ProviderFactory = llm.NewProviderFactory(a.Config, a.Logger)

	a.AnalyzerService = analyzer.NewService(
		a.ProviderFactory,
		a.StorageManager.ReportStorage(),
		a.Config,
		a.Logger,
	)

	edgarClient := edgar.NewClient(
		a.Config.Edgar.UserAgent,
		edgar.WithLogger(a.Logger),
		edgar.WithRateLimit(a.Config.Edgar.RateLimit),
	)
	a.SourceResolver = sources.NewResolver(edgarClient, a.Logger)

	thresholds, err := alerts.LoadThresholds(a.Config.Alerts.ThresholdsFile)
	if err != nil {
		return fmt.Errorf("failed to load alert thresholds: %w", err)
	}
	a.Thresholds = thresholds

	return nil
}

// initHandlers wires HTTP handlers to their services.
func (a *App) initHandlers() {
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.AnalyzerService, a.SourceResolver, a.Logger)
	a.ReportHandler = handlers.NewReportHandler(a.StorageManager.ReportStorage(), a.Thresholds, a.Logger)
	a.ProviderHandler = handlers.NewProviderHandler(a.ProviderFactory, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StorageManager.ReportStorage(), a.ProviderFactory, a.Logger)
}

// startMaintenance schedules periodic Badger value-log garbage collection.
func (a *App) startMaintenance() error {
	c := cron.New()
	_, err := c.AddFunc(a.Config.Maintenance.Schedule, func() {
		if err := a.StorageManager.RunGC(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage GC pass failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", a.Config.Maintenance.Schedule, err)
	}

	c.Start()
	a.maintenance = c

	a.Logger.Debug().
		Str("schedule", a.Config.Maintenance.Schedule).
		Msg("Maintenance scheduler started")

	return nil
}

// Close shuts down application components in reverse dependency order.
func (a *App) Close() error {
	if a.maintenance != nil {
		a.maintenance.Stop()
	}

	if a.ProviderFactory != nil {
		if err := a.ProviderFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Provider factory close failed")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
