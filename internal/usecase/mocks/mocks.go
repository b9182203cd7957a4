package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// MockCommodityRepository is a mock implementation of CommodityRepository.
type MockCommodityRepository struct {
	mu          sync.RWMutex
	commodities map[int64]*domain.Commodity

	ReplaceAllFunc func(ctx context.Context, tx usecase.Transaction, commodities []*domain.Commodity) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.Commodity, error)
	ListFunc       func(ctx context.Context) ([]*domain.Commodity, error)
}

func NewMockCommodityRepository(commodities ...*domain.Commodity) *MockCommodityRepository {
	m := &MockCommodityRepository{
		commodities: make(map[int64]*domain.Commodity),
	}
	for _, c := range commodities {
		m.commodities[c.ID] = c
	}
	return m
}

func (m *MockCommodityRepository) ReplaceAll(ctx context.Context, tx usecase.Transaction, commodities []*domain.Commodity) error {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, tx, commodities)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commodities = make(map[int64]*domain.Commodity, len(commodities))
	for _, c := range commodities {
		m.commodities[c.ID] = c
	}
	return nil
}

func (m *MockCommodityRepository) GetByID(ctx context.Context, id int64) (*domain.Commodity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.commodities[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCommodityNotFound
}

func (m *MockCommodityRepository) List(ctx context.Context) ([]*domain.Commodity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Commodity, 0, len(m.commodities))
	for _, c := range m.commodities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockValuationRepository is a mock implementation of ValuationRepository.
type MockValuationRepository struct {
	mu         sync.RWMutex
	valuations map[int64]*domain.Valuation

	UpsertQuotesFunc func(ctx context.Context, quotes []domain.Quote) error
	UpsertFunc       func(ctx context.Context, valuation *domain.Valuation) error
	GetFunc          func(ctx context.Context, commodityID int64) (*domain.Valuation, error)
	ListFunc         func(ctx context.Context) ([]*domain.Valuation, error)
}

func NewMockValuationRepository() *MockValuationRepository {
	return &MockValuationRepository{
		valuations: make(map[int64]*domain.Valuation),
	}
}

func (m *MockValuationRepository) UpsertQuotes(ctx context.Context, quotes []domain.Quote) error {
	if m.UpsertQuotesFunc != nil {
		return m.UpsertQuotesFunc(ctx, quotes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range quotes {
		v, ok := m.valuations[q.CommodityID]
		if !ok {
			v = &domain.Valuation{CommodityID: q.CommodityID}
			m.valuations[q.CommodityID] = v
		}
		observed := q.ObservedAt
		v.BuyPrice = q.Buy
		v.SellPrice = q.Sell
		v.QuotedAt = &observed
	}
	return nil
}

func (m *MockValuationRepository) Upsert(ctx context.Context, valuation *domain.Valuation) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, valuation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := *valuation
	if existing, ok := m.valuations[v.CommodityID]; ok && v.QuotedAt == nil {
		v.BuyPrice, v.SellPrice, v.QuotedAt = existing.BuyPrice, existing.SellPrice, existing.QuotedAt
	}
	m.valuations[v.CommodityID] = &v
	return nil
}

func (m *MockValuationRepository) Get(ctx context.Context, commodityID int64) (*domain.Valuation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, commodityID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.valuations[commodityID]; ok {
		c := *v
		return &c, nil
	}
	return nil, domain.ErrValuationMissing
}

func (m *MockValuationRepository) List(ctx context.Context) ([]*domain.Valuation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Valuation, 0, len(m.valuations))
	for _, v := range m.valuations {
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommodityID < out[j].CommodityID })
	return out, nil
}

// MockTaxRateRepository is a mock implementation of TaxRateRepository.
type MockTaxRateRepository struct {
	mu    sync.RWMutex
	table *domain.TaxRateTable

	LoadFunc       func(ctx context.Context) (*domain.TaxRateTable, bool, error)
	SaveFunc       func(ctx context.Context, table *domain.TaxRateTable) error
	SetRateFunc    func(ctx context.Context, category domain.Category, percent decimal.Decimal) error
	SetDefaultFunc func(ctx context.Context, percent decimal.Decimal) error
}

func NewMockTaxRateRepository() *MockTaxRateRepository {
	return &MockTaxRateRepository{}
}

func (m *MockTaxRateRepository) Load(ctx context.Context) (*domain.TaxRateTable, bool, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.table == nil {
		return nil, false, nil
	}
	return copyTable(m.table), true, nil
}

func (m *MockTaxRateRepository) Save(ctx context.Context, table *domain.TaxRateTable) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = copyTable(table)
	return nil
}

func (m *MockTaxRateRepository) SetRate(ctx context.Context, category domain.Category, percent decimal.Decimal) error {
	if m.SetRateFunc != nil {
		return m.SetRateFunc(ctx, category, percent)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.table == nil {
		m.table = &domain.TaxRateTable{Rates: map[domain.Category]decimal.Decimal{}}
	}
	m.table.Rates[category] = percent
	return nil
}

func (m *MockTaxRateRepository) SetDefault(ctx context.Context, percent decimal.Decimal) error {
	if m.SetDefaultFunc != nil {
		return m.SetDefaultFunc(ctx, percent)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.table == nil {
		m.table = &domain.TaxRateTable{Rates: map[domain.Category]decimal.Decimal{}}
	}
	m.table.Default = percent
	return nil
}

func copyTable(t *domain.TaxRateTable) *domain.TaxRateTable {
	c := &domain.TaxRateTable{
		Rates:   make(map[domain.Category]decimal.Decimal, len(t.Rates)),
		Default: t.Default,
	}
	for k, v := range t.Rates {
		c.Rates[k] = v
	}
	return c
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu    sync.RWMutex
	lines map[domain.LedgerKey]*domain.LedgerLine

	UpsertFunc       func(ctx context.Context, line *domain.LedgerLine) error
	ListByEntityFunc func(ctx context.Context, entityID int64) ([]*domain.LedgerLine, error)
	ListFunc         func(ctx context.Context) ([]*domain.LedgerLine, error)
}

func NewMockLedgerRepository(lines ...*domain.LedgerLine) *MockLedgerRepository {
	m := &MockLedgerRepository{
		lines: make(map[domain.LedgerKey]*domain.LedgerLine),
	}
	for _, l := range lines {
		m.lines[l.Key().Normalize()] = l
	}
	return m
}

func (m *MockLedgerRepository) Upsert(ctx context.Context, line *domain.LedgerLine) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l := *line
	m.lines[l.Key().Normalize()] = &l
	return nil
}

func (m *MockLedgerRepository) ListByEntity(ctx context.Context, entityID int64) ([]*domain.LedgerLine, error) {
	if m.ListByEntityFunc != nil {
		return m.ListByEntityFunc(ctx, entityID)
	}
	all, _ := m.all()
	out := all[:0]
	for _, l := range all {
		if l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockLedgerRepository) List(ctx context.Context) ([]*domain.LedgerLine, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.all()
}

// Len returns the number of stored lines.
func (m *MockLedgerRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}

func (m *MockLedgerRepository) all() ([]*domain.LedgerLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerLine, 0, len(m.lines))
	for _, l := range m.lines {
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].EntityID != out[j].EntityID {
			return out[i].EntityID < out[j].EntityID
		}
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].CommodityID < out[j].CommodityID
	})
	return out, nil
}

// MockCreditRepository is a mock implementation of CreditRepository.
type MockCreditRepository struct {
	mu      sync.RWMutex
	credits []*domain.CreditEntry

	CreateFunc       func(ctx context.Context, credit *domain.CreditEntry) error
	UpsertPaidFunc   func(ctx context.Context, tx usecase.Transaction, credit *domain.CreditEntry) error
	ListByEntityFunc func(ctx context.Context, entityID int64) ([]*domain.CreditEntry, error)
	ListFunc         func(ctx context.Context) ([]*domain.CreditEntry, error)
}

func NewMockCreditRepository(credits ...*domain.CreditEntry) *MockCreditRepository {
	return &MockCreditRepository{credits: credits}
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *domain.CreditEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, credit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *credit
	m.credits = append(m.credits, &c)
	return nil
}

func (m *MockCreditRepository) UpsertPaid(ctx context.Context, tx usecase.Transaction, credit *domain.CreditEntry) error {
	if m.UpsertPaidFunc != nil {
		return m.UpsertPaidFunc(ctx, tx, credit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.credits {
		if existing.Type == domain.CreditTypePaid && existing.EntityID == credit.EntityID && existing.Date.Equal(credit.Date) {
			existing.Amount = credit.Amount
			existing.Reason = credit.Reason
			return nil
		}
	}
	c := *credit
	m.credits = append(m.credits, &c)
	return nil
}

func (m *MockCreditRepository) ListByEntity(ctx context.Context, entityID int64) ([]*domain.CreditEntry, error) {
	if m.ListByEntityFunc != nil {
		return m.ListByEntityFunc(ctx, entityID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CreditEntry
	for _, c := range m.credits {
		if c.EntityID == entityID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (m *MockCreditRepository) List(ctx context.Context) ([]*domain.CreditEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.CreditEntry, 0, len(m.credits))
	for _, c := range m.credits {
		cc := *c
		out = append(out, &cc)
	}
	return out, nil
}

// MockEntityRepository is a mock implementation of EntityRepository.
type MockEntityRepository struct {
	mu       sync.RWMutex
	entities map[int64]*domain.Entity

	UpsertFunc        func(ctx context.Context, entity *domain.Entity) error
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.Entity, error)
	ListFunc          func(ctx context.Context) ([]*domain.Entity, error)
	ListByAccountFunc func(ctx context.Context, accountID int64) ([]*domain.Entity, error)
	TouchLedgerFunc   func(ctx context.Context, id int64, at time.Time) error
}

func NewMockEntityRepository(entities ...*domain.Entity) *MockEntityRepository {
	m := &MockEntityRepository{
		entities: make(map[int64]*domain.Entity),
	}
	for _, e := range entities {
		m.entities[e.ID] = e
	}
	return m
}

func (m *MockEntityRepository) Upsert(ctx context.Context, entity *domain.Entity) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, entity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *entity
	m.entities[e.ID] = &e
	return nil
}

func (m *MockEntityRepository) GetByID(ctx context.Context, id int64) (*domain.Entity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entities[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, domain.ErrEntityNotFound
}

func (m *MockEntityRepository) List(ctx context.Context) ([]*domain.Entity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.filter(func(*domain.Entity) bool { return true }), nil
}

func (m *MockEntityRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Entity, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	return m.filter(func(e *domain.Entity) bool { return e.AccountID == accountID }), nil
}

func (m *MockEntityRepository) TouchLedger(ctx context.Context, id int64, at time.Time) error {
	if m.TouchLedgerFunc != nil {
		return m.TouchLedgerFunc(ctx, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return domain.ErrEntityNotFound
	}
	t := at
	e.LedgerUpdatedAt = &t
	return nil
}

func (m *MockEntityRepository) filter(keep func(*domain.Entity) bool) []*domain.Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entity
	for _, e := range m.entities {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account

	UpsertFunc  func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Account, error)
	ListFunc    func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository(accounts ...*domain.Account) *MockAccountRepository {
	m := &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *MockAccountRepository) Upsert(ctx context.Context, account *domain.Account) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := *account
	m.accounts[a.ID] = &a
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockObservationRepository is a mock implementation of ObservationRepository.
type MockObservationRepository struct {
	mu           sync.RWMutex
	observations map[string]*domain.Observation

	UpsertFunc            func(ctx context.Context, observation *domain.Observation) error
	ListFunc              func(ctx context.Context) ([]*domain.Observation, error)
	ObserverLocationsFunc func(ctx context.Context) ([]int64, error)
	PurgeBeforeFunc       func(ctx context.Context, before time.Time) (int64, error)
}

func NewMockObservationRepository() *MockObservationRepository {
	return &MockObservationRepository{
		observations: make(map[string]*domain.Observation),
	}
}

func observationKey(o *domain.Observation) string {
	k := o.Key()
	return fmt.Sprintf("%s/%d/%s/%d/%d", o.Source, k.EntityID, k.Date.Format(time.DateOnly), k.LocationID, k.CommodityID)
}

func (m *MockObservationRepository) Upsert(ctx context.Context, observation *domain.Observation) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, observation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o := *observation
	m.observations[observationKey(&o)] = &o
	return nil
}

func (m *MockObservationRepository) List(ctx context.Context) ([]*domain.Observation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Observation, 0, len(m.observations))
	for _, o := range m.observations {
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return observationKey(out[i]) < observationKey(out[j]) })
	return out, nil
}

func (m *MockObservationRepository) ObserverLocations(ctx context.Context) ([]int64, error) {
	if m.ObserverLocationsFunc != nil {
		return m.ObserverLocationsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[int64]bool)
	var out []int64
	for _, o := range m.observations {
		if o.Source == domain.ObservationObserver && !seen[o.LocationID] {
			seen[o.LocationID] = true
			out = append(out, o.LocationID)
		}
	}
	return out, nil
}

func (m *MockObservationRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeBeforeFunc != nil {
		return m.PurgeBeforeFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for k, o := range m.observations {
		if o.Date.Before(before) {
			delete(m.observations, k)
			purged++
		}
	}
	return purged, nil
}

// MockObservedTransactionRepository is a mock implementation of ObservedTransactionRepository.
type MockObservedTransactionRepository struct {
	mu      sync.RWMutex
	records map[int64]*domain.ObservedTransaction
	matched map[int64]int64

	RecordFunc        func(ctx context.Context, tx usecase.Transaction, transaction *domain.ObservedTransaction, matchedEntityID int64) error
	ListUnmatchedFunc func(ctx context.Context) ([]*domain.ObservedTransaction, error)
}

func NewMockObservedTransactionRepository() *MockObservedTransactionRepository {
	return &MockObservedTransactionRepository{
		records: make(map[int64]*domain.ObservedTransaction),
		matched: make(map[int64]int64),
	}
}

func (m *MockObservedTransactionRepository) Record(ctx context.Context, tx usecase.Transaction, transaction *domain.ObservedTransaction, matchedEntityID int64) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, tx, transaction, matchedEntityID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := *transaction
	m.records[t.ID] = &t
	m.matched[t.ID] = matchedEntityID
	return nil
}

func (m *MockObservedTransactionRepository) ListUnmatched(ctx context.Context) ([]*domain.ObservedTransaction, error) {
	if m.ListUnmatchedFunc != nil {
		return m.ListUnmatchedFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ObservedTransaction
	for id, t := range m.records {
		if m.matched[id] == 0 {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockNotificationOutbox is a mock implementation of NotificationOutbox.
type MockNotificationOutbox struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	EnqueueFunc         func(ctx context.Context, notification *domain.Notification) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockNotificationOutbox() *MockNotificationOutbox {
	return &MockNotificationOutbox{}
}

func (m *MockNotificationOutbox) Enqueue(ctx context.Context, notification *domain.Notification) error {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := *notification
	m.notifications = append(m.notifications, &n)
	return nil
}

func (m *MockNotificationOutbox) GetUnpublished(ctx context.Context, limit int) ([]*domain.Notification, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Notification
	for _, n := range m.notifications {
		if !n.Published {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockNotificationOutbox) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			t := publishedAt
			n.Published = true
			n.PublishedAt = &t
		}
	}
	return nil
}

func (m *MockNotificationOutbox) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.notifications[:0]
	for _, n := range m.notifications {
		if !n.Published || n.PublishedAt == nil || !n.PublishedAt.Before(before) {
			kept = append(kept, n)
		}
	}
	m.notifications = kept
	return nil
}

// All returns every stored notification.
func (m *MockNotificationOutbox) All() []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Notification(nil), m.notifications...)
}

// MockStatsRepository is a mock implementation of StatsRepository.
type MockStatsRepository struct {
	mu       sync.RWMutex
	snapshot *domain.StatsSnapshot

	SaveFunc   func(ctx context.Context, snapshot *domain.StatsSnapshot) error
	LatestFunc func(ctx context.Context) (*domain.StatsSnapshot, error)
}

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{}
}

func (m *MockStatsRepository) Save(ctx context.Context, snapshot *domain.StatsSnapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot
	return nil
}

func (m *MockStatsRepository) Latest(ctx context.Context) (*domain.StatsSnapshot, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot == nil {
		return nil, usecase.ErrStatsUnavailable
	}
	return m.snapshot, nil
}

// MockPeriodGuard is a mock implementation of PeriodGuard.
type MockPeriodGuard struct {
	mu   sync.Mutex
	keys map[string]bool

	AcquireFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, key string) error
}

func NewMockPeriodGuard() *MockPeriodGuard {
	return &MockPeriodGuard{keys: make(map[string]bool)}
}

func (m *MockPeriodGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *MockPeriodGuard) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// Held reports whether key is currently claimed.
func (m *MockPeriodGuard) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key]
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier runs the operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}
