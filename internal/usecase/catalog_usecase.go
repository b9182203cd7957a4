package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// CatalogUseCase loads reference data: the commodity catalog and the entity directory.
type CatalogUseCase struct {
	txManager     TransactionManager
	commodityRepo CommodityRepository
	entityRepo    EntityRepository
	accountRepo   AccountRepository
	logger        zerolog.Logger
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(
	txManager TransactionManager,
	commodityRepo CommodityRepository,
	entityRepo EntityRepository,
	accountRepo AccountRepository,
	logger zerolog.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		txManager:     txManager,
		commodityRepo: commodityRepo,
		entityRepo:    entityRepo,
		accountRepo:   accountRepo,
		logger:        logger.With().Str("component", "catalog").Logger(),
	}
}

// Import replaces the catalog wholesale. Invalid commodities are dropped and counted
// as failed; the rest are swapped in atomically.
func (uc *CatalogUseCase) Import(ctx context.Context, commodities []*domain.Commodity) (BatchResult, error) {
	var result BatchResult

	valid := make([]*domain.Commodity, 0, len(commodities))
	seen := make(map[int64]bool, len(commodities))
	for _, c := range commodities {
		if err := c.Validate(); err != nil {
			uc.logger.Warn().Err(err).Int64("commodity_id", c.ID).Msg("invalid commodity")
			result.Failed++
			continue
		}
		if seen[c.ID] {
			result.Skipped++
			continue
		}
		seen[c.ID] = true
		valid = append(valid, c)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer tx.Rollback(ctx)

	if err := uc.commodityRepo.ReplaceAll(ctx, tx, valid); err != nil {
		return result, fmt.Errorf("replace catalog: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return result, err
	}

	result.Processed = len(valid)
	uc.logger.Info().Int("commodities", result.Processed).Msg("catalog imported")

	return result, nil
}

// Directory is the set of accounts and entities known to the engine.
type Directory struct {
	Accounts []*domain.Account
	Entities []*domain.Entity
}

// ImportDirectory upserts accounts and entities. Entities referencing an unknown
// account are stored as orphans.
func (uc *CatalogUseCase) ImportDirectory(ctx context.Context, dir Directory) (BatchResult, error) {
	var result BatchResult

	known := make(map[int64]bool, len(dir.Accounts))
	for _, a := range dir.Accounts {
		if err := uc.accountRepo.Upsert(ctx, a); err != nil {
			uc.logger.Warn().Err(err).Int64("account_id", a.ID).Msg("failed to store account")
			result.Failed++
			continue
		}
		known[a.ID] = true
		result.Processed++
	}

	for _, e := range dir.Entities {
		if e.AccountID != 0 && !known[e.AccountID] {
			if _, err := uc.accountRepo.GetByID(ctx, e.AccountID); err != nil {
				uc.logger.Warn().Int64("entity_id", e.ID).Int64("account_id", e.AccountID).Msg("unknown account, storing entity as orphan")
				e.AccountID = 0
			}
		}

		if err := uc.entityRepo.Upsert(ctx, e); err != nil {
			uc.logger.Warn().Err(err).Int64("entity_id", e.ID).Msg("failed to store entity")
			result.Failed++
			continue
		}
		result.Processed++
	}

	return result, nil
}
