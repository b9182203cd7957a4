package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// TaxUseCase manages the tax rate table and resolves per-commodity rates.
type TaxUseCase struct {
	repo   TaxRateRepository
	cfg    EngineConfig
	logger zerolog.Logger
}

// NewTaxUseCase creates a new TaxUseCase.
func NewTaxUseCase(repo TaxRateRepository, cfg EngineConfig, logger zerolog.Logger) *TaxUseCase {
	return &TaxUseCase{
		repo:   repo,
		cfg:    cfg,
		logger: logger.With().Str("component", "tax").Logger(),
	}
}

// Table loads the persisted table, seeding it from configuration on first use.
func (uc *TaxUseCase) Table(ctx context.Context) (*domain.TaxRateTable, error) {
	table, found, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !found {
		table, err = domain.NewTaxRateTable(uc.cfg.DefaultTaxPercent, uc.cfg.TaxPercents)
		if err != nil {
			return nil, err
		}

		if err := uc.repo.Save(ctx, table); err != nil {
			return nil, fmt.Errorf("seed tax rates: %w", err)
		}

		uc.logger.Info().Msg("tax rate table seeded from configuration")
		return table, nil
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}

	return table, nil
}

// RateFor returns the tax fraction for commodity c.
func (uc *TaxUseCase) RateFor(ctx context.Context, c *domain.Commodity) (decimal.Decimal, error) {
	table, err := uc.Table(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return uc.rateFrom(table, c), nil
}

func (uc *TaxUseCase) rateFrom(table *domain.TaxRateTable, c *domain.Commodity) decimal.Decimal {
	rate, known := table.RateFor(c.GroupID)
	if !known {
		uc.logger.Debug().
			Int64("commodity_id", c.ID).
			Int64("group_id", c.GroupID).
			Str("rate", rate.String()).
			Msg("unknown tax group, using default rate")
	}
	return rate
}

// SetRate stores a category percentage.
func (uc *TaxUseCase) SetRate(ctx context.Context, category domain.Category, percent decimal.Decimal) error {
	if err := domain.ValidatePercentage(percent); err != nil {
		return err
	}

	// Seed first so the remaining categories keep their configured values.
	if _, err := uc.Table(ctx); err != nil {
		return err
	}

	return uc.repo.SetRate(ctx, category, percent)
}

// SetDefault stores the percentage applied to unknown groups.
func (uc *TaxUseCase) SetDefault(ctx context.Context, percent decimal.Decimal) error {
	if err := domain.ValidatePercentage(percent); err != nil {
		return err
	}

	if _, err := uc.Table(ctx); err != nil {
		return err
	}

	return uc.repo.SetDefault(ctx, percent)
}
