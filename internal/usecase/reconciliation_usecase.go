package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when stored lines disagree with their own rates.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: taxes owed do not match taxed value and rate")
)

// ReconciliationUseCase turns observed corporate transactions into paid credits and
// checks ledger consistency.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	creditRepo  CreditRepository
	txRepo      ObservedTransactionRepository
	entityRepo  EntityRepository
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	phrase      string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case.
func NewReconciliationUseCase(
	txManager TransactionManager,
	retrier Retrier,
	creditRepo CreditRepository,
	txRepo ObservedTransactionRepository,
	entityRepo EntityRepository,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
	phrase string,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		retrier:     retrier,
		creditRepo:  creditRepo,
		txRepo:      txRepo,
		entityRepo:  entityRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		phrase:      phrase,
		logger:      logger.With().Str("component", "reconciliation").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	BatchResult
	Credited  decimal.Decimal
	Unmatched []*domain.ObservedTransaction
}

// Reconcile credits every incoming transaction whose reason matches the configured
// phrase to the paying entity. Payments from known alts go to the account's primary
// entity. Credits are keyed by (entity, date), so repeated passes never duplicate.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, transactions []*domain.ObservedTransaction) (*ReconcileResult, error) {
	result := &ReconcileResult{Credited: decimal.Zero}
	entities := make(map[int64]*domain.Entity)

	for _, t := range transactions {
		if !t.Amount.IsPositive() || !t.MatchesPhrase(uc.phrase) {
			result.Skipped++
			continue
		}

		entityID, err := uc.resolvePayer(ctx, entities, t.PayerID)
		if errors.Is(err, domain.ErrIdentityUnmatched) {
			uc.logger.Warn().
				Int64("transaction_id", t.ID).
				Int64("payer_id", t.PayerID).
				Str("amount", t.Amount.String()).
				Msg("payment from unknown payer")

			if err := uc.persist(ctx, t, nil); err != nil {
				uc.logger.Warn().Err(err).Int64("transaction_id", t.ID).Msg("failed to record unmatched transaction")
			}

			result.Unmatched = append(result.Unmatched, t)
			result.Skipped++
			continue
		}
		if err != nil {
			uc.logger.Warn().Err(err).Int64("payer_id", t.PayerID).Msg("payer lookup failed")
			result.Failed++
			continue
		}

		credit := &domain.CreditEntry{
			ID:        uc.idGen.Generate(),
			EntityID:  entityID,
			Date:      t.Date,
			Amount:    t.Amount,
			Type:      domain.CreditTypePaid,
			Reason:    t.Reason,
			CreatedAt: uc.now(),
		}

		if err := uc.persist(ctx, t, credit); err != nil {
			uc.logger.Error().Err(err).Int64("transaction_id", t.ID).Msg("failed to post payment")
			result.Failed++
			continue
		}

		result.Credited = result.Credited.Add(t.Amount)
		result.Processed++
	}

	uc.logger.Info().
		Int("credited", result.Processed).
		Int("unmatched", len(result.Unmatched)).
		Str("amount", result.Credited.String()).
		Msg("transactions reconciled")

	return result, nil
}

// persist records the transaction and, when credit is non-nil, upserts the credit in
// the same database transaction.
func (uc *ReconciliationUseCase) persist(ctx context.Context, t *domain.ObservedTransaction, credit *domain.CreditEntry) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		var matched int64
		if credit != nil {
			if err := uc.creditRepo.UpsertPaid(ctx, tx, credit); err != nil {
				return err
			}
			matched = credit.EntityID
		}

		if err := uc.txRepo.Record(ctx, tx, t, matched); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// resolvePayer maps a payer to the entity that should be credited.
func (uc *ReconciliationUseCase) resolvePayer(ctx context.Context, cache map[int64]*domain.Entity, payerID int64) (int64, error) {
	e, ok := cache[payerID]
	if !ok {
		var err error
		e, err = uc.entityRepo.GetByID(ctx, payerID)
		if errors.Is(err, domain.ErrEntityNotFound) {
			e = nil
		} else if err != nil {
			return 0, err
		}
		cache[payerID] = e
	}

	switch {
	case e == nil:
		return 0, domain.ErrIdentityUnmatched
	case e.Tracked:
		return e.ID, nil
	case e.IsOrphan():
		return 0, domain.ErrIdentityUnmatched
	}

	account, err := uc.accountRepo.GetByID(ctx, e.AccountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return 0, domain.ErrIdentityUnmatched
	}
	if err != nil {
		return 0, err
	}

	if account.PrimaryEntityID == 0 {
		return 0, fmt.Errorf("%w: account %d has no primary entity", domain.ErrIdentityUnmatched, account.ID)
	}

	return account.PrimaryEntityID, nil
}

// LineDiscrepancy is a stored line whose taxes owed disagree with its taxed value and rate.
type LineDiscrepancy struct {
	Key        domain.LedgerKey
	Recorded   decimal.Decimal
	Calculated decimal.Decimal
	Difference decimal.Decimal
}

// ConsistencyReport is the result of CheckConsistency.
type ConsistencyReport struct {
	TotalLines     int
	Discrepancies  []LineDiscrepancy
	OrphanEntities []int64
	Consistent     bool
	CheckedAt      time.Time
}

// CheckConsistency recomputes taxes owed for every stored line and lists orphaned
// entities. It returns ErrInconsistentLedger alongside the report when any line disagrees.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	lines, err := uc.ledgerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	entities, err := uc.entityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		TotalLines: len(lines),
		CheckedAt:  uc.now(),
	}

	for _, l := range lines {
		calculated := l.TaxedValue.Mul(l.TaxRate)
		if !calculated.Equal(l.TaxesOwed) {
			report.Discrepancies = append(report.Discrepancies, LineDiscrepancy{
				Key:        l.Key(),
				Recorded:   l.TaxesOwed,
				Calculated: calculated,
				Difference: l.TaxesOwed.Sub(calculated),
			})
		}
	}

	for _, e := range entities {
		if e.Tracked && e.IsOrphan() {
			report.OrphanEntities = append(report.OrphanEntities, e.ID)
		}
	}

	report.Consistent = len(report.Discrepancies) == 0
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
