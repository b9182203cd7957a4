package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// CommodityRepository implements usecase.CommodityRepository.
type CommodityRepository struct {
	queries *generated.Queries
}

// NewCommodityRepository creates a new CommodityRepository.
func NewCommodityRepository(db generated.DBTX) *CommodityRepository {
	return &CommodityRepository{queries: generated.New(db)}
}

type materialRow struct {
	MaterialID int64 `json:"material_id"`
	Quantity   int64 `json:"quantity"`
}

// ReplaceAll deletes the catalog and inserts commodities inside tx.
func (r *CommodityRepository) ReplaceAll(ctx context.Context, tx usecase.Transaction, commodities []*domain.Commodity) error {
	queries := queriesFor(tx, r.queries)

	if err := queries.DeleteCommodities(ctx); err != nil {
		return err
	}

	for _, c := range commodities {
		rows := make([]materialRow, 0, len(c.Materials))
		for _, m := range c.Materials {
			rows = append(rows, materialRow{MaterialID: m.MaterialID, Quantity: m.Quantity})
		}

		materials, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("marshal materials of %d: %w", c.ID, err)
		}

		if err := queries.InsertCommodity(ctx, generated.InsertCommodityParams{
			ID:            c.ID,
			Name:          c.Name,
			GroupID:       c.GroupID,
			PortionSize:   c.PortionSize,
			Materials:     materials,
			AveragePrice:  decimalPtrToNumeric(c.AveragePrice),
			AdjustedPrice: decimalPtrToNumeric(c.AdjustedPrice),
		}); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a commodity by ID.
func (r *CommodityRepository) GetByID(ctx context.Context, id int64) (*domain.Commodity, error) {
	row, err := r.queries.GetCommodityByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommodityNotFound
		}

		return nil, err
	}

	return rowToCommodity(row)
}

// List returns the whole catalog.
func (r *CommodityRepository) List(ctx context.Context) ([]*domain.Commodity, error) {
	rows, err := r.queries.ListCommodities(ctx)
	if err != nil {
		return nil, err
	}

	commodities := make([]*domain.Commodity, 0, len(rows))
	for _, row := range rows {
		c, err := rowToCommodity(row)
		if err != nil {
			return nil, err
		}
		commodities = append(commodities, c)
	}

	return commodities, nil
}

func rowToCommodity(row generated.Commodity) (*domain.Commodity, error) {
	var materials []materialRow
	if len(row.Materials) > 0 {
		if err := json.Unmarshal(row.Materials, &materials); err != nil {
			return nil, fmt.Errorf("unmarshal materials of %d: %w", row.ID, err)
		}
	}

	c := &domain.Commodity{
		ID:            row.ID,
		Name:          row.Name,
		GroupID:       row.GroupID,
		PortionSize:   row.PortionSize,
		AveragePrice:  numericToDecimalPtr(row.AveragePrice),
		AdjustedPrice: numericToDecimalPtr(row.AdjustedPrice),
	}
	for _, m := range materials {
		c.Materials = append(c.Materials, domain.Material{MaterialID: m.MaterialID, Quantity: m.Quantity})
	}

	return c, nil
}
