package postgres

import (
	"context"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
)

// ObservationRepository implements usecase.ObservationRepository.
type ObservationRepository struct {
	queries *generated.Queries
}

// NewObservationRepository creates a new ObservationRepository.
func NewObservationRepository(db generated.DBTX) *ObservationRepository {
	return &ObservationRepository{queries: generated.New(db)}
}

// Upsert stores an observation under (source, entity, date, location, commodity).
func (r *ObservationRepository) Upsert(ctx context.Context, o *domain.Observation) error {
	return r.queries.UpsertObservation(ctx, generated.UpsertObservationParams{
		Source:      string(o.Source),
		EntityID:    o.EntityID,
		Date:        dayToPgDate(o.Date),
		LocationID:  o.LocationID,
		CommodityID: o.CommodityID,
		Quantity:    o.Quantity,
		ObservedAt:  timeToPgTimestamptz(o.ObservedAt),
	})
}

// List returns every stored observation.
func (r *ObservationRepository) List(ctx context.Context) ([]*domain.Observation, error) {
	rows, err := r.queries.ListObservations(ctx)
	if err != nil {
		return nil, err
	}

	observations := make([]*domain.Observation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, &domain.Observation{
			EntityID:    row.EntityID,
			Date:        pgDateToDay(row.Date),
			LocationID:  row.LocationID,
			CommodityID: row.CommodityID,
			Quantity:    row.Quantity,
			Source:      domain.ObservationSource(row.Source),
			ObservedAt:  pgTimestamptzToTime(row.ObservedAt),
		})
	}

	return observations, nil
}

// ObserverLocations returns the locations covered by an observer.
func (r *ObservationRepository) ObserverLocations(ctx context.Context) ([]int64, error) {
	return r.queries.ListObserverLocations(ctx)
}

// PurgeBefore deletes observations dated before the given day.
func (r *ObservationRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.queries.PurgeObservationsBefore(ctx, dayToPgDate(before))
}
