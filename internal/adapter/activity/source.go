// Package activity reads already-fetched mining logs, wallet journals and reference data
// from JSON files.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// File names inside the activity directory.
const (
	ObservationsFile = "observations.json"
	TransactionsFile = "transactions.json"
)

const dateLayout = "2006-01-02"

// FileSource implements usecase.ActivitySource over a directory of JSON batches.
// A missing batch file means no activity yet.
type FileSource struct {
	dir string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

type observationRecord struct {
	EntityID    int64  `json:"entity_id"`
	Date        string `json:"date"`
	LocationID  int64  `json:"location_id"`
	CommodityID int64  `json:"type_id"`
	Quantity    int64  `json:"quantity"`
	Source      string `json:"source"`
}

type transactionRecord struct {
	ID      int64           `json:"id"`
	PayerID int64           `json:"payer_id"`
	Date    time.Time       `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}

// Observations returns observations dated on or after the day of since.
func (s *FileSource) Observations(ctx context.Context, since time.Time) ([]*domain.Observation, error) {
	var records []observationRecord
	if err := s.read(ctx, ObservationsFile, &records); err != nil {
		return nil, err
	}

	from := domain.Day(since)
	observed := time.Now().UTC()

	observations := make([]*domain.Observation, 0, len(records))
	for i, r := range records {
		day, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s record %d: bad date %q", domain.ErrSourceUnavailable, ObservationsFile, i, r.Date)
		}
		if day.Before(from) {
			continue
		}

		source := domain.ObservationPersonal
		if r.Source == string(domain.ObservationObserver) {
			source = domain.ObservationObserver
		}

		observations = append(observations, &domain.Observation{
			EntityID:    r.EntityID,
			Date:        day,
			LocationID:  r.LocationID,
			CommodityID: r.CommodityID,
			Quantity:    r.Quantity,
			Source:      source,
			ObservedAt:  observed,
		})
	}

	return observations, nil
}

// Transactions returns wallet transactions made at or after since.
func (s *FileSource) Transactions(ctx context.Context, since time.Time) ([]*domain.ObservedTransaction, error) {
	var records []transactionRecord
	if err := s.read(ctx, TransactionsFile, &records); err != nil {
		return nil, err
	}

	txs := make([]*domain.ObservedTransaction, 0, len(records))
	for _, r := range records {
		if r.Date.Before(since) {
			continue
		}
		txs = append(txs, &domain.ObservedTransaction{
			ID:      r.ID,
			PayerID: r.PayerID,
			Date:    r.Date.UTC(),
			Amount:  r.Amount,
			Reason:  r.Reason,
		})
	}

	return txs, nil
}

func (s *FileSource) read(ctx context.Context, name string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrSourceUnavailable, name, err)
	}

	return nil
}
