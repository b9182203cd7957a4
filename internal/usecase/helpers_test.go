package usecase_test

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase/mocks"
)

var (
	testNow  = time.Date(2022, 1, 15, 12, 0, 0, 0, time.UTC)
	testDay  = time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	testJan  = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	fixedNow = func() time.Time { return testNow }
)

const (
	veldspar  int64 = 1230
	tritanium int64 = 34
	locationA int64 = 40000001
	locationB int64 = 40000002
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// engine wires every use case to in-memory repositories.
type engine struct {
	cfg usecase.EngineConfig

	commodities  *mocks.MockCommodityRepository
	valuations   *mocks.MockValuationRepository
	taxRates     *mocks.MockTaxRateRepository
	ledgerRepo   *mocks.MockLedgerRepository
	credits      *mocks.MockCreditRepository
	entities     *mocks.MockEntityRepository
	accounts     *mocks.MockAccountRepository
	observations *mocks.MockObservationRepository
	observedTx   *mocks.MockObservedTransactionRepository
	outbox       *mocks.MockNotificationOutbox
	statsRepo    *mocks.MockStatsRepository
	guard        *mocks.MockPeriodGuard
	txManager    *mocks.MockTransactionManager
	idGen        *mocks.MockIDGenerator

	pricing        *usecase.PricingUseCase
	tax            *usecase.TaxUseCase
	ledger         *usecase.LedgerUseCase
	aggregate      *usecase.AggregateUseCase
	interest       *usecase.InterestUseCase
	reconciliation *usecase.ReconciliationUseCase
	stats          *usecase.StatsUseCase
	catalog        *usecase.CatalogUseCase
}

type engineOption func(*usecase.EngineConfig)

func newEngine(source usecase.QuoteSource, opts ...engineOption) *engine {
	cfg := usecase.DefaultEngineConfig()
	cfg.Pricing.Policy = domain.TaxedPriceRefined
	cfg.TaxOnlyObservedLocations = false
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &engine{
		cfg:          cfg,
		commodities:  mocks.NewMockCommodityRepository(),
		valuations:   mocks.NewMockValuationRepository(),
		taxRates:     mocks.NewMockTaxRateRepository(),
		ledgerRepo:   mocks.NewMockLedgerRepository(),
		credits:      mocks.NewMockCreditRepository(),
		entities:     mocks.NewMockEntityRepository(),
		accounts:     mocks.NewMockAccountRepository(),
		observations: mocks.NewMockObservationRepository(),
		observedTx:   mocks.NewMockObservedTransactionRepository(),
		outbox:       mocks.NewMockNotificationOutbox(),
		statsRepo:    mocks.NewMockStatsRepository(),
		guard:        mocks.NewMockPeriodGuard(),
		txManager:    mocks.NewMockTransactionManager(),
		idGen:        mocks.NewMockIDGenerator(),
	}

	logger := zerolog.Nop()

	e.pricing = usecase.NewPricingUseCase(e.commodities, e.valuations, source, cfg, logger)
	e.pricing.SetNow(fixedNow)
	e.tax = usecase.NewTaxUseCase(e.taxRates, cfg, logger)
	e.ledger = usecase.NewLedgerUseCase(e.ledgerRepo, e.entities, e.commodities, e.observations, e.pricing, e.tax, cfg, logger)
	e.ledger.SetNow(fixedNow)
	e.aggregate = usecase.NewAggregateUseCase(e.ledgerRepo, e.credits, e.entities, e.accounts)
	e.interest = usecase.NewInterestUseCase(e.entities, e.accounts, e.credits, e.outbox, e.aggregate, e.idGen, cfg.Interest, logger)
	e.interest.SetNow(fixedNow)
	e.reconciliation = usecase.NewReconciliationUseCase(
		e.txManager, mocks.NewMockRetrier(), e.credits, e.observedTx, e.entities, e.accounts, e.ledgerRepo, e.idGen, cfg.ReconcilePhrase, logger,
	)
	e.reconciliation.SetNow(fixedNow)
	e.stats = usecase.NewStatsUseCase(e.accounts, e.entities, e.ledgerRepo, e.credits, e.commodities, e.observations, e.observedTx, e.statsRepo, logger)
	e.stats.SetNow(fixedNow)
	e.catalog = usecase.NewCatalogUseCase(e.txManager, e.commodities, e.entities, e.accounts, logger)

	return e
}

// seedQuote stores a quote for id as if a refresh had just run.
func (e *engine) seedQuote(id int64, buy string) {
	_ = e.valuations.UpsertQuotes(context.Background(), []domain.Quote{{CommodityID: id, Buy: d(buy), Sell: d(buy), ObservedAt: testNow}})
}

func withPolicy(p domain.TaxedPricePolicy) engineOption {
	return func(c *usecase.EngineConfig) { c.Pricing.Policy = p }
}

func withInterest(rate, threshold string) engineOption {
	return func(c *usecase.EngineConfig) {
		c.Interest = usecase.InterestConfig{RatePercent: d(rate), Threshold: d(threshold)}
	}
}

func withPhrase(phrase string) engineOption {
	return func(c *usecase.EngineConfig) { c.ReconcilePhrase = phrase }
}

func withObservedLocationsOnly() engineOption {
	return func(c *usecase.EngineConfig) { c.TaxOnlyObservedLocations = true }
}

func (e *engine) seedCommodities(commodities ...*domain.Commodity) {
	_ = e.commodities.ReplaceAll(context.Background(), nil, commodities)
}

// veldsparOre refines 100 units into 400 tritanium.
func veldsparOre() *domain.Commodity {
	return &domain.Commodity{
		ID:          veldspar,
		Name:        "Veldspar",
		GroupID:     462,
		PortionSize: 100,
		Materials:   []domain.Material{{MaterialID: tritanium, Quantity: 400}},
	}
}

func plainCommodity(id, groupID int64) *domain.Commodity {
	return &domain.Commodity{ID: id, Name: "Commodity", GroupID: groupID}
}
