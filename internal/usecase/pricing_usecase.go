package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// PricingUseCase refreshes quotes and maintains cached valuations.
type PricingUseCase struct {
	commodityRepo CommodityRepository
	valuationRepo ValuationRepository
	source        QuoteSource
	cfg           EngineConfig
	logger        zerolog.Logger
	now           func() time.Time
}

// NewPricingUseCase creates a new PricingUseCase.
func NewPricingUseCase(
	commodityRepo CommodityRepository,
	valuationRepo ValuationRepository,
	source QuoteSource,
	cfg EngineConfig,
	logger zerolog.Logger,
) *PricingUseCase {
	return &PricingUseCase{
		commodityRepo: commodityRepo,
		valuationRepo: valuationRepo,
		source:        source,
		cfg:           cfg,
		logger:        logger.With().Str("component", "pricing").Logger(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RefreshQuotes fetches quotes for every catalog commodity and its materials. If the
// source fails, nothing is stored and previously stored quotes stay untouched.
func (uc *PricingUseCase) RefreshQuotes(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	if uc.source == nil {
		return result, fmt.Errorf("%w: no quote source configured", domain.ErrUnknownPricingMethod)
	}

	commodities, err := uc.commodityRepo.List(ctx)
	if err != nil {
		return result, err
	}

	ids := quoteIDs(commodities)
	if len(ids) == 0 {
		return result, nil
	}

	size := domain.ValidateBatchSize(uc.cfg.QuoteBatchSize)
	limit := uc.cfg.QuoteConcurrency
	if limit <= 0 {
		limit = DefaultQuoteConcurrency
	}

	var (
		mu     sync.Mutex
		quotes = make(map[int64]domain.Quote, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for start := 0; start < len(ids); start += size {
		batch := ids[start:min(start+size, len(ids))]
		g.Go(func() error {
			got, err := uc.source.FetchQuotes(gctx, batch)
			if err != nil {
				return err
			}

			mu.Lock()
			for id, q := range got {
				quotes[id] = q
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		uc.logger.Error().Err(err).Str("source", uc.source.Name()).Msg("quote refresh aborted")
		return result, err
	}

	batch := make([]domain.Quote, 0, len(quotes))
	for _, id := range ids {
		q, ok := quotes[id]
		if !ok {
			uc.logger.Debug().Int64("commodity_id", id).Msg("no quote returned")
			result.Skipped++
			continue
		}
		q.CommodityID = id
		batch = append(batch, q)
	}

	if err := uc.valuationRepo.UpsertQuotes(ctx, batch); err != nil {
		return result, err
	}

	result.Processed = len(batch)

	uc.logger.Info().
		Str("source", uc.source.Name()).
		Int("quoted", result.Processed).
		Int("missing", result.Skipped).
		Msg("quotes refreshed")

	return result, nil
}

// RecomputeValuations valuates every catalog commodity. A failing commodity is
// counted and logged; the rest of the batch continues.
func (uc *PricingUseCase) RecomputeValuations(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	book, commodities, err := uc.loadBook(ctx)
	if err != nil {
		return result, err
	}

	now := uc.now()
	for _, c := range commodities {
		v, source := domain.Valuate(c, book, uc.cfg.Pricing, now)
		if source != domain.PriceSourceQuote {
			uc.logger.Debug().
				Int64("commodity_id", c.ID).
				Str("price_source", string(source)).
				Msg("no quote, using fallback price")
		}

		if err := uc.valuationRepo.Upsert(ctx, &v); err != nil {
			uc.logger.Warn().Err(err).Int64("commodity_id", c.ID).Msg("failed to store valuation")
			result.Failed++
			continue
		}
		result.Processed++
	}

	return result, nil
}

// ValuationFor returns the cached valuation for a commodity, computing and storing
// it when absent or older than the configured maximum age.
func (uc *PricingUseCase) ValuationFor(ctx context.Context, commodityID int64) (*domain.Valuation, error) {
	cached, err := uc.valuationRepo.Get(ctx, commodityID)
	if err != nil && !errors.Is(err, domain.ErrValuationMissing) {
		return nil, err
	}

	now := uc.now()
	if cached != nil && !uc.expired(cached, now) {
		return cached, nil
	}

	c, err := uc.commodityRepo.GetByID(ctx, commodityID)
	if err != nil {
		return nil, err
	}

	book, err := uc.bookFor(ctx, c)
	if err != nil {
		return nil, err
	}

	v, _ := domain.Valuate(c, book, uc.cfg.Pricing, now)
	if err := uc.valuationRepo.Upsert(ctx, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// expired reports whether v must be recomputed. A row holding only a quote has a
// zero UpdatedAt.
func (uc *PricingUseCase) expired(v *domain.Valuation, now time.Time) bool {
	if v.UpdatedAt.IsZero() {
		return true
	}
	if uc.cfg.ValuationMaxAge <= 0 {
		return false
	}
	return now.Sub(v.UpdatedAt) > uc.cfg.ValuationMaxAge
}

func (uc *PricingUseCase) loadBook(ctx context.Context) (domain.PriceBook, []*domain.Commodity, error) {
	commodities, err := uc.commodityRepo.List(ctx)
	if err != nil {
		return domain.PriceBook{}, nil, err
	}

	valuations, err := uc.valuationRepo.List(ctx)
	if err != nil {
		return domain.PriceBook{}, nil, err
	}

	book := domain.PriceBook{
		Quotes:      make(map[int64]domain.Quote, len(valuations)),
		Commodities: make(map[int64]*domain.Commodity, len(commodities)),
	}
	for _, c := range commodities {
		book.Commodities[c.ID] = c
	}
	for _, v := range valuations {
		if q, ok := v.Quote(); ok {
			book.Quotes[v.CommodityID] = q
		}
	}

	return book, commodities, nil
}

// bookFor loads only the rows needed to valuate c.
func (uc *PricingUseCase) bookFor(ctx context.Context, c *domain.Commodity) (domain.PriceBook, error) {
	book := domain.PriceBook{
		Quotes:      make(map[int64]domain.Quote, len(c.Materials)+1),
		Commodities: map[int64]*domain.Commodity{c.ID: c},
	}

	ids := []int64{c.ID}
	for _, m := range c.Materials {
		ids = append(ids, m.MaterialID)
	}

	for _, id := range ids {
		v, err := uc.valuationRepo.Get(ctx, id)
		switch {
		case err == nil:
			if q, ok := v.Quote(); ok {
				book.Quotes[id] = q
			}
		case !errors.Is(err, domain.ErrValuationMissing):
			return book, err
		}

		if id == c.ID {
			continue
		}

		m, err := uc.commodityRepo.GetByID(ctx, id)
		switch {
		case err == nil:
			book.Commodities[id] = m
		case !errors.Is(err, domain.ErrCommodityNotFound):
			return book, err
		}
	}

	return book, nil
}

// quoteIDs returns the sorted, de-duplicated ids of commodities and their materials.
func quoteIDs(commodities []*domain.Commodity) []int64 {
	seen := make(map[int64]struct{}, len(commodities))
	for _, c := range commodities {
		seen[c.ID] = struct{}{}
		for _, m := range c.Materials {
			seen[m.MaterialID] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
