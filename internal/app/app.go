// Package app assembles the engine's object graph from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/GoosefleetEO/miningtaxes/internal/adapter/activity"
	"github.com/GoosefleetEO/miningtaxes/internal/adapter/pricesource"
	postgresRepo "github.com/GoosefleetEO/miningtaxes/internal/adapter/repository/postgres"
	redisRepo "github.com/GoosefleetEO/miningtaxes/internal/adapter/repository/redis"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/config"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/eventpublisher"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/logging"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/metrics"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/redis"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// App holds the connected infrastructure and every use case.
type App struct {
	Config  *config.Config
	Engine  usecase.EngineConfig
	Logger  zerolog.Logger
	Slog    *logging.Logger
	Metrics *metrics.Metrics

	Pool  *pgxpool.Pool
	Redis *goredis.Client

	Outbox    *postgresRepo.NotificationOutbox
	Guard     *redisRepo.PeriodGuard
	Publisher *eventpublisher.EventPublisher

	Tax            *usecase.TaxUseCase
	Pricing        *usecase.PricingUseCase
	Ledger         *usecase.LedgerUseCase
	Aggregate      *usecase.AggregateUseCase
	Reconciliation *usecase.ReconciliationUseCase
	Interest       *usecase.InterestUseCase
	Stats          *usecase.StatsUseCase
	Catalog        *usecase.CatalogUseCase
	Cycle          *usecase.CycleUseCase
}

// New connects to Postgres and Redis and wires the use cases. A nil reg registers
// metrics with the default Prometheus registerer.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*App, error) {
	engine, err := cfg.Engine()
	if err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info().Msg("connected to redis")

	a := &App{
		Config:  cfg,
		Engine:  engine,
		Logger:  logger,
		Slog:    slogger,
		Metrics: metrics.New(reg),
		Pool:    pool,
		Redis:   redisClient,
	}
	a.wire()

	return a, nil
}

func (a *App) wire() {
	cfg, engine, logger := a.Config, a.Engine, a.Logger

	txManager := postgresRepo.NewTxManager(a.Pool)
	retrier := postgresRepo.NewRetrier(postgresRepo.WithRetryLogger(a.Slog.Logger))
	idGen := postgresRepo.NewULIDGenerator()

	commodityRepo := postgresRepo.NewCommodityRepository(a.Pool)
	valuationRepo := postgresRepo.NewValuationRepository(a.Pool)
	taxRateRepo := postgresRepo.NewTaxRateRepository(a.Pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(a.Pool)
	creditRepo := postgresRepo.NewCreditRepository(a.Pool)
	accountRepo := postgresRepo.NewAccountRepository(a.Pool)
	entityRepo := postgresRepo.NewEntityRepository(a.Pool)
	observationRepo := postgresRepo.NewObservationRepository(a.Pool)
	observedTxRepo := postgresRepo.NewObservedTransactionRepository(a.Pool)
	a.Outbox = postgresRepo.NewNotificationOutbox(a.Pool)

	statsStore := redisRepo.NewStatsStore(a.Redis, cfg.StatsTTL)
	a.Guard = redisRepo.NewPeriodGuard(a.Redis)

	source, err := pricesource.New(PriceSourceConfig(cfg))
	if err != nil {
		// The refresh step reports the configuration error on every cycle.
		logger.Error().Err(err).Str("method", cfg.PriceMethod).Msg("quote source unavailable")
	}

	a.Tax = usecase.NewTaxUseCase(taxRateRepo, engine, logger)
	a.Pricing = usecase.NewPricingUseCase(commodityRepo, valuationRepo, source, engine, logger)
	a.Ledger = usecase.NewLedgerUseCase(ledgerRepo, entityRepo, commodityRepo, observationRepo, a.Pricing, a.Tax, engine, logger)
	a.Aggregate = usecase.NewAggregateUseCase(ledgerRepo, creditRepo, entityRepo, accountRepo)
	a.Reconciliation = usecase.NewReconciliationUseCase(
		txManager, retrier, creditRepo, observedTxRepo, entityRepo, accountRepo, ledgerRepo, idGen,
		engine.ReconcilePhrase, logger,
	)
	a.Interest = usecase.NewInterestUseCase(entityRepo, accountRepo, creditRepo, a.Outbox, a.Aggregate, idGen, engine.Interest, logger)
	a.Stats = usecase.NewStatsUseCase(
		accountRepo, entityRepo, ledgerRepo, creditRepo, commodityRepo, observationRepo, observedTxRepo, statsStore, logger,
	)
	a.Catalog = usecase.NewCatalogUseCase(txManager, commodityRepo, entityRepo, accountRepo, logger)
	a.Cycle = usecase.NewCycleUseCase(usecase.CycleDeps{
		Pricing:         a.Pricing,
		Ledger:          a.Ledger,
		Reconciliation:  a.Reconciliation,
		Interest:        a.Interest,
		Stats:           a.Stats,
		Activity:        activity.NewFileSource(cfg.ActivityDir),
		ObservationRepo: observationRepo,
		Outbox:          a.Outbox,
		Guard:           a.Guard,
		Observer:        a.Metrics,
	}, engine, logger)

	a.Publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		Outbox:    a.Outbox,
		Publisher: eventpublisher.NewLogPublisher(a.Slog.Logger),
		Logger:    a.Slog,
		Retention: engine.ObservationRetention,
	})
}

// RunCycle runs one maintenance cycle bounded by CYCLE_TIMEOUT and records its metrics.
func (a *App) RunCycle(ctx context.Context, opts usecase.CycleOptions) *usecase.CycleReport {
	ctx, cancel := context.WithTimeout(ctx, a.Config.CycleTimeout)
	defer cancel()

	report := a.Cycle.Run(ctx, opts)
	a.Metrics.ObserveCycle(report)

	a.Slog.InfoCtx(logging.WithCycleID(ctx, report.RunID), "cycle report",
		slog.Int("steps", len(report.Steps)),
		slog.Bool("failed", report.Failed()),
		slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))

	return report
}

// ReportPoolStats samples connection usage into the metrics until ctx is done.
func (a *App) ReportPoolStats(ctx context.Context) {
	postgres.ReportPoolStats(ctx, a.Pool, a.Metrics.DBConnections, 15*time.Second)
}

// Close releases the connections.
func (a *App) Close() {
	_ = a.Redis.Close()
	a.Pool.Close()
}

// PriceSourceConfig maps settings onto the quote source factory input.
func PriceSourceConfig(cfg *config.Config) pricesource.Config {
	return pricesource.Config{
		Method:       cfg.PriceMethod,
		SourceID:     cfg.PriceSourceID,
		SourceName:   cfg.PriceSourceName,
		FuzzworkURL:  cfg.FuzzworkURL,
		JaniceURL:    cfg.JaniceURL,
		JaniceAPIKey: cfg.JaniceAPIKey,
		JaniceMarket: cfg.JaniceMarket,
		Timeout:      cfg.PriceTimeout,
	}
}
