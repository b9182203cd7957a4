package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// AggregateUseCase rolls ledger lines and credits up into balances.
type AggregateUseCase struct {
	ledgerRepo  LedgerRepository
	creditRepo  CreditRepository
	entityRepo  EntityRepository
	accountRepo AccountRepository
}

// NewAggregateUseCase creates a new AggregateUseCase.
func NewAggregateUseCase(
	ledgerRepo LedgerRepository,
	creditRepo CreditRepository,
	entityRepo EntityRepository,
	accountRepo AccountRepository,
) *AggregateUseCase {
	return &AggregateUseCase{
		ledgerRepo:  ledgerRepo,
		creditRepo:  creditRepo,
		entityRepo:  entityRepo,
		accountRepo: accountRepo,
	}
}

// EntityBalance is an entity's rolled-up position. Balance is obligations minus
// credits and may be negative.
type EntityBalance struct {
	EntityID    int64
	Obligations decimal.Decimal
	Credits     decimal.Decimal
	Balance     decimal.Decimal
	LastPaid    *time.Time
}

// AccountSummary aggregates every entity of an account.
type AccountSummary struct {
	AccountID          int64
	Name               string
	PrimaryEntityID    int64
	Entities           []EntityBalance
	MonthlyObligations []domain.MonthlyAmount
	MonthlyCredits     []domain.MonthlyAmount
	Obligations        decimal.Decimal
	Credits            decimal.Decimal
	Balance            decimal.Decimal
	LastPaid           *time.Time
}

// MonthlyObligations sums an entity's taxes owed per calendar month, oldest first.
func (uc *AggregateUseCase) MonthlyObligations(ctx context.Context, entityID int64) ([]domain.MonthlyAmount, error) {
	lines, err := uc.ledgerRepo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return monthlyObligations(lines), nil
}

// LifetimeObligations sums every tax owed by an entity.
func (uc *AggregateUseCase) LifetimeObligations(ctx context.Context, entityID int64) (decimal.Decimal, error) {
	monthly, err := uc.MonthlyObligations(ctx, entityID)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.Total(monthly), nil
}

// MonthlyCredits sums an entity's credits per calendar month, oldest first.
func (uc *AggregateUseCase) MonthlyCredits(ctx context.Context, entityID int64) ([]domain.MonthlyAmount, error) {
	credits, err := uc.creditRepo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return monthlyCredits(credits), nil
}

// LifetimeCredits sums every credit of an entity.
func (uc *AggregateUseCase) LifetimeCredits(ctx context.Context, entityID int64) (decimal.Decimal, error) {
	monthly, err := uc.MonthlyCredits(ctx, entityID)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.Total(monthly), nil
}

// Balance returns an entity's position. Unknown entities have a zero balance.
func (uc *AggregateUseCase) Balance(ctx context.Context, entityID int64) (*EntityBalance, error) {
	lines, err := uc.ledgerRepo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	credits, err := uc.creditRepo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	b := entityBalance(entityID, lines, credits)
	return &b, nil
}

// AccountSummary aggregates all entities belonging to the account. Orphaned
// entities never appear here.
func (uc *AggregateUseCase) AccountSummary(ctx context.Context, accountID int64) (*AccountSummary, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entities, err := uc.entityRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		AccountID:       account.ID,
		Name:            account.Name,
		PrimaryEntityID: account.PrimaryEntityID,
		Obligations:     decimal.Zero,
		Credits:         decimal.Zero,
	}

	var obligationSeries, creditSeries [][]domain.MonthlyAmount
	for _, e := range entities {
		lines, err := uc.ledgerRepo.ListByEntity(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		credits, err := uc.creditRepo.ListByEntity(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		b := entityBalance(e.ID, lines, credits)
		summary.Entities = append(summary.Entities, b)
		summary.Obligations = summary.Obligations.Add(b.Obligations)
		summary.Credits = summary.Credits.Add(b.Credits)
		summary.LastPaid = latest(summary.LastPaid, b.LastPaid)

		obligationSeries = append(obligationSeries, monthlyObligations(lines))
		creditSeries = append(creditSeries, monthlyCredits(credits))
	}

	summary.MonthlyObligations = domain.MergeMonthly(obligationSeries...)
	summary.MonthlyCredits = domain.MergeMonthly(creditSeries...)
	summary.Balance = summary.Obligations.Sub(summary.Credits)

	return summary, nil
}

func monthlyObligations(lines []*domain.LedgerLine) []domain.MonthlyAmount {
	return domain.SumByMonth(lines,
		func(l *domain.LedgerLine) time.Time { return l.Date },
		func(l *domain.LedgerLine) decimal.Decimal { return l.TaxesOwed },
	)
}

func monthlyCredits(credits []*domain.CreditEntry) []domain.MonthlyAmount {
	return domain.SumByMonth(credits,
		func(c *domain.CreditEntry) time.Time { return c.Date },
		func(c *domain.CreditEntry) decimal.Decimal { return c.Amount },
	)
}

func entityBalance(entityID int64, lines []*domain.LedgerLine, credits []*domain.CreditEntry) EntityBalance {
	b := EntityBalance{
		EntityID:    entityID,
		Obligations: decimal.Zero,
		Credits:     decimal.Zero,
	}

	for _, l := range lines {
		b.Obligations = b.Obligations.Add(l.TaxesOwed)
	}

	for _, c := range credits {
		b.Credits = b.Credits.Add(c.Amount)
		if c.Type == domain.CreditTypePaid {
			d := domain.Day(c.Date)
			b.LastPaid = latest(b.LastPaid, &d)
		}
	}

	b.Balance = b.Obligations.Sub(b.Credits)
	return b
}

func latest(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.After(*a):
		return b
	default:
		return a
	}
}
