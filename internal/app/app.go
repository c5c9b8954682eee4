package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/external/pipelinehook"
	"github.com/pitchlens/match-engine/internal/config"
	cacherepo "github.com/pitchlens/match-engine/internal/infrastructure/repository/cache"
	"github.com/pitchlens/match-engine/internal/infrastructure/repository/postgres"
	"github.com/pitchlens/match-engine/internal/platform/cache"
	"github.com/pitchlens/match-engine/internal/platform/logging"
	"github.com/pitchlens/match-engine/internal/platform/resilience"
	"github.com/pitchlens/match-engine/internal/usecase"
)

// videoCacheTTL bounds how long half and match records are served from
// memory. One reconciliation run finishes well inside it.
const videoCacheTTL = 5 * time.Minute

// App wires the reconciliation services against the document store.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	DB        *sqlx.DB
	Videos    *cacherepo.VideoRepository
	Reconcile *usecase.ReconcileService
	Assists   *usecase.AssistService
	Clips     *usecase.ClipService
	// Hook is nil when the completion webhook is not configured.
	Hook *pipelinehook.Publisher
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := connectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}

	videoRepo := cacherepo.NewVideoRepository(postgres.NewVideoRepository(db), cache.NewStore(videoCacheTTL))
	eventRepo := postgres.NewEventRepository(db)
	clipRepo := postgres.NewClipRepository(db)
	statRepo := postgres.NewStatRepository(db)
	tacticalRepo := postgres.NewTacticalRepository(db)
	summaryRepo := postgres.NewSummaryRepository(db)
	assistRepo := postgres.NewAssistRepository(db)
	writer := postgres.NewBatchWriter(db)

	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Videos: videoRepo,
		Reconcile: usecase.NewReconcileService(
			videoRepo,
			eventRepo,
			clipRepo,
			statRepo,
			tacticalRepo,
			summaryRepo,
			writer,
			logger,
		),
		Assists: usecase.NewAssistService(eventRepo, assistRepo, writer, logger),
		Clips:   usecase.NewClipService(eventRepo, clipRepo, writer, logger),
	}

	if cfg.WebhookEnabled {
		app.Hook = pipelinehook.NewPublisher(pipelinehook.PublisherConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Retries: cfg.WebhookRetries,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	return app, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
