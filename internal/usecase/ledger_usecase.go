package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// LedgerUseCase turns observed activity into valued, taxed ledger lines.
type LedgerUseCase struct {
	ledgerRepo      LedgerRepository
	entityRepo      EntityRepository
	commodityRepo   CommodityRepository
	observationRepo ObservationRepository
	pricing         *PricingUseCase
	tax             *TaxUseCase
	cfg             EngineConfig
	logger          zerolog.Logger
	now             func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	ledgerRepo LedgerRepository,
	entityRepo EntityRepository,
	commodityRepo CommodityRepository,
	observationRepo ObservationRepository,
	pricing *PricingUseCase,
	tax *TaxUseCase,
	cfg EngineConfig,
	logger zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:      ledgerRepo,
		entityRepo:      entityRepo,
		commodityRepo:   commodityRepo,
		observationRepo: observationRepo,
		pricing:         pricing,
		tax:             tax,
		cfg:             cfg,
		logger:          logger.With().Str("component", "ledger").Logger(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RecordInput identifies one day of mining a commodity at a location.
type RecordInput struct {
	EntityID    int64
	Date        time.Time
	LocationID  int64
	CommodityID int64
	Quantity    int64
}

// Record values and taxes one observation and upserts the resulting line. A second
// call with the same key replaces the quantity.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordInput) (*domain.LedgerLine, error) {
	if input.Quantity < 0 {
		return nil, domain.ErrNegativeQuantity
	}

	table, err := uc.tax.Table(ctx)
	if err != nil {
		return nil, err
	}

	c, err := uc.commodityRepo.GetByID(ctx, input.CommodityID)
	if err != nil {
		return nil, err
	}

	return uc.record(ctx, input, c, table)
}

func (uc *LedgerUseCase) record(ctx context.Context, input RecordInput, c *domain.Commodity, table *domain.TaxRateTable) (*domain.LedgerLine, error) {
	v, err := uc.pricing.ValuationFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	key := domain.LedgerKey{
		EntityID:    input.EntityID,
		Date:        input.Date,
		LocationID:  input.LocationID,
		CommodityID: input.CommodityID,
	}

	line, err := domain.NewLedgerLine(key, input.Quantity, *v, uc.tax.rateFrom(table, c), uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.Upsert(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

// ProcessObservations stores raw observations and records a ledger line for each
// personal observation of a tracked entity. Observer rows only mark locations as
// observed. When TaxOnlyObservedLocations is on, personal rows at unobserved
// locations are skipped.
func (uc *LedgerUseCase) ProcessObservations(ctx context.Context, observations []*domain.Observation) (BatchResult, error) {
	var result BatchResult

	table, err := uc.tax.Table(ctx)
	if err != nil {
		return result, err
	}

	observed := make(map[int64]bool)
	for _, o := range observations {
		if err := uc.observationRepo.Upsert(ctx, o); err != nil {
			uc.logger.Warn().Err(err).Int64("entity_id", o.EntityID).Msg("failed to store observation")
		}
		if o.Source == domain.ObservationObserver {
			observed[o.LocationID] = true
		}
	}

	if uc.cfg.TaxOnlyObservedLocations {
		locations, err := uc.observationRepo.ObserverLocations(ctx)
		if err != nil {
			return result, err
		}
		for _, id := range locations {
			observed[id] = true
		}
	}

	entities := make(map[int64]*domain.Entity)
	commodities := make(map[int64]*domain.Commodity)
	touched := make(map[int64]bool)

	for _, o := range observations {
		if o.Source != domain.ObservationPersonal {
			continue
		}

		if o.Quantity < 0 {
			uc.logger.Warn().Int64("entity_id", o.EntityID).Int64("quantity", o.Quantity).Msg("negative quantity observed")
			result.Failed++
			continue
		}

		if uc.cfg.TaxOnlyObservedLocations && !observed[o.LocationID] {
			result.Skipped++
			continue
		}

		entity, err := uc.lookupEntity(ctx, entities, o.EntityID)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("entity_id", o.EntityID).Msg("entity lookup failed")
			result.Failed++
			continue
		}
		if entity == nil || !entity.Tracked {
			result.Skipped++
			continue
		}

		c, err := uc.lookupCommodity(ctx, commodities, o.CommodityID)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("commodity_id", o.CommodityID).Msg("commodity lookup failed")
			result.Failed++
			continue
		}

		input := RecordInput{
			EntityID:    o.EntityID,
			Date:        o.Date,
			LocationID:  o.LocationID,
			CommodityID: o.CommodityID,
			Quantity:    o.Quantity,
		}
		if _, err := uc.record(ctx, input, c, table); err != nil {
			uc.logger.Warn().Err(err).
				Int64("entity_id", o.EntityID).
				Int64("commodity_id", o.CommodityID).
				Msg("failed to record ledger line")
			result.Failed++
			continue
		}

		touched[o.EntityID] = true
		result.Processed++
	}

	now := uc.now()
	for id := range touched {
		if err := uc.entityRepo.TouchLedger(ctx, id, now); err != nil {
			uc.logger.Warn().Err(err).Int64("entity_id", id).Msg("failed to update ledger timestamp")
		}
	}

	return result, nil
}

// lookupEntity returns nil without error for unknown entities.
func (uc *LedgerUseCase) lookupEntity(ctx context.Context, cache map[int64]*domain.Entity, id int64) (*domain.Entity, error) {
	if e, ok := cache[id]; ok {
		return e, nil
	}

	e, err := uc.entityRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrEntityNotFound) {
		cache[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cache[id] = e
	return e, nil
}

func (uc *LedgerUseCase) lookupCommodity(ctx context.Context, cache map[int64]*domain.Commodity, id int64) (*domain.Commodity, error) {
	if c, ok := cache[id]; ok {
		return c, nil
	}

	c, err := uc.commodityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cache[id] = c
	return c, nil
}

// IsLedgerStale reports whether the entity's ledger needs a refresh.
func (uc *LedgerUseCase) IsLedgerStale(ctx context.Context, entityID int64) (bool, error) {
	e, err := uc.entityRepo.GetByID(ctx, entityID)
	if err != nil {
		return false, err
	}

	return e.IsLedgerStale(uc.now(), uc.cfg.StaleWindow()), nil
}

// ListLines returns an entity's ledger lines.
func (uc *LedgerUseCase) ListLines(ctx context.Context, entityID int64) ([]*domain.LedgerLine, error) {
	if _, err := uc.entityRepo.GetByID(ctx, entityID); err != nil {
		return nil, err
	}

	return uc.ledgerRepo.ListByEntity(ctx, entityID)
}
