package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// CommodityRepository defines data access for the commodity catalog.
type CommodityRepository interface {
	// ReplaceAll swaps the whole catalog inside tx.
	ReplaceAll(ctx context.Context, tx Transaction, commodities []*domain.Commodity) error
	GetByID(ctx context.Context, id int64) (*domain.Commodity, error)
	List(ctx context.Context) ([]*domain.Commodity, error)
}

// ValuationRepository defines data access for cached valuations and the quotes merged into them.
type ValuationRepository interface {
	UpsertQuotes(ctx context.Context, quotes []domain.Quote) error
	Upsert(ctx context.Context, valuation *domain.Valuation) error
	Get(ctx context.Context, commodityID int64) (*domain.Valuation, error)
	List(ctx context.Context) ([]*domain.Valuation, error)
}

// TaxRateRepository defines data access for the persisted tax rate table.
type TaxRateRepository interface {
	// Load returns found=false when no table has been persisted yet.
	Load(ctx context.Context) (table *domain.TaxRateTable, found bool, err error)
	Save(ctx context.Context, table *domain.TaxRateTable) error
	SetRate(ctx context.Context, category domain.Category, percent decimal.Decimal) error
	SetDefault(ctx context.Context, percent decimal.Decimal) error
}

// LedgerRepository defines data access for ledger lines.
type LedgerRepository interface {
	// Upsert inserts or replaces the line stored under the same natural key.
	Upsert(ctx context.Context, line *domain.LedgerLine) error
	ListByEntity(ctx context.Context, entityID int64) ([]*domain.LedgerLine, error)
	List(ctx context.Context) ([]*domain.LedgerLine, error)
}

// CreditRepository defines data access for credit entries.
type CreditRepository interface {
	Create(ctx context.Context, credit *domain.CreditEntry) error
	// UpsertPaid inserts or replaces a paid credit keyed by (entity, date).
	UpsertPaid(ctx context.Context, tx Transaction, credit *domain.CreditEntry) error
	ListByEntity(ctx context.Context, entityID int64) ([]*domain.CreditEntry, error)
	List(ctx context.Context) ([]*domain.CreditEntry, error)
}

// EntityRepository defines data access for tracked and known entities.
type EntityRepository interface {
	Upsert(ctx context.Context, entity *domain.Entity) error
	GetByID(ctx context.Context, id int64) (*domain.Entity, error)
	List(ctx context.Context) ([]*domain.Entity, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Entity, error)
	TouchLedger(ctx context.Context, id int64, at time.Time) error
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Upsert(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// ObservationRepository defines data access for raw activity observations.
type ObservationRepository interface {
	Upsert(ctx context.Context, observation *domain.Observation) error
	List(ctx context.Context) ([]*domain.Observation, error)
	// ObserverLocations returns every location with at least one observer observation.
	ObserverLocations(ctx context.Context) ([]int64, error)
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

// ObservedTransactionRepository records the outcome of reconciling corporate transactions.
type ObservedTransactionRepository interface {
	// Record stores the transaction. matchedEntityID is zero when no entity matched.
	Record(ctx context.Context, tx Transaction, transaction *domain.ObservedTransaction, matchedEntityID int64) error
	ListUnmatched(ctx context.Context) ([]*domain.ObservedTransaction, error)
}

// NotificationOutbox defines data access for pending notifications.
type NotificationOutbox interface {
	Enqueue(ctx context.Context, notification *domain.Notification) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// StatsRepository stores the latest stats snapshot.
type StatsRepository interface {
	Save(ctx context.Context, snapshot *domain.StatsSnapshot) error
	Latest(ctx context.Context) (*domain.StatsSnapshot, error)
}

// PeriodGuard lets a periodic job run at most once per period key.
type PeriodGuard interface {
	// Acquire returns true the first time key is claimed within ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key so the period can be claimed again.
	Release(ctx context.Context, key string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries operations that failed with transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
