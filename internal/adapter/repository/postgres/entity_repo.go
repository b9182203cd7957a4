package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
)

// EntityRepository implements usecase.EntityRepository.
type EntityRepository struct {
	queries *generated.Queries
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(db generated.DBTX) *EntityRepository {
	return &EntityRepository{queries: generated.New(db)}
}

// Upsert stores an entity. The ledger timestamp of an existing row is kept.
func (r *EntityRepository) Upsert(ctx context.Context, entity *domain.Entity) error {
	return r.queries.UpsertEntity(ctx, generated.UpsertEntityParams{
		ID:              entity.ID,
		Name:            entity.Name,
		AccountID:       entity.AccountID,
		Tracked:         entity.Tracked,
		LedgerUpdatedAt: timePtrToPgTimestamptz(entity.LedgerUpdatedAt),
	})
}

// GetByID retrieves an entity by ID.
func (r *EntityRepository) GetByID(ctx context.Context, id int64) (*domain.Entity, error) {
	row, err := r.queries.GetEntityByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}

		return nil, err
	}

	return rowToEntity(row), nil
}

// List returns every known entity.
func (r *EntityRepository) List(ctx context.Context) ([]*domain.Entity, error) {
	rows, err := r.queries.ListEntities(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToEntities(rows), nil
}

// ListByAccount returns the members of an account.
func (r *EntityRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Entity, error) {
	rows, err := r.queries.ListEntitiesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToEntities(rows), nil
}

// TouchLedger records when the ledger of an entity was last rebuilt.
func (r *EntityRepository) TouchLedger(ctx context.Context, id int64, at time.Time) error {
	n, err := r.queries.TouchEntityLedger(ctx, generated.TouchEntityLedgerParams{
		ID:              id,
		LedgerUpdatedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntityNotFound
	}

	return nil
}

func rowsToEntities(rows []generated.Entity) []*domain.Entity {
	entities := make([]*domain.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, rowToEntity(row))
	}

	return entities
}

func rowToEntity(row generated.Entity) *domain.Entity {
	return &domain.Entity{
		ID:              row.ID,
		Name:            row.Name,
		AccountID:       row.AccountID,
		Tracked:         row.Tracked,
		LedgerUpdatedAt: pgTimestamptzToPtr(row.LedgerUpdatedAt),
	}
}
