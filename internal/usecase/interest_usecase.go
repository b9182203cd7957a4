package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// InterestUseCase charges interest on outstanding balances and raises taxes-due
// notifications. Accrue is not idempotent; callers guard it per period.
type InterestUseCase struct {
	entityRepo  EntityRepository
	accountRepo AccountRepository
	creditRepo  CreditRepository
	outbox      NotificationOutbox
	aggregate   *AggregateUseCase
	idGen       IDGenerator
	cfg         InterestConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// InterestPeriodKey names the monthly period guarding interest accrual.
func InterestPeriodKey(t time.Time) string {
	return "interest:" + domain.Month(t).Format("2006-01")
}

// TaxesDuePeriodKey names the daily period guarding taxes-due notifications.
func TaxesDuePeriodKey(t time.Time) string {
	return "taxes-due:" + domain.Day(t).Format(time.DateOnly)
}

// NewInterestUseCase creates a new InterestUseCase.
func NewInterestUseCase(
	entityRepo EntityRepository,
	accountRepo AccountRepository,
	creditRepo CreditRepository,
	outbox NotificationOutbox,
	aggregate *AggregateUseCase,
	idGen IDGenerator,
	cfg InterestConfig,
	logger zerolog.Logger,
) *InterestUseCase {
	return &InterestUseCase{
		entityRepo:  entityRepo,
		accountRepo: accountRepo,
		creditRepo:  creditRepo,
		outbox:      outbox,
		aggregate:   aggregate,
		idGen:       idGen,
		cfg:         cfg,
		logger:      logger.With().Str("component", "interest").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// InterestCharge describes one posted interest credit.
type InterestCharge struct {
	EntityID int64
	Balance  decimal.Decimal
	Interest decimal.Decimal
	CreditID string
}

// Accrue posts an interest credit for every tracked entity whose balance exceeds
// the threshold. Interest is rounded to two decimal places and posted only when it
// also exceeds the threshold.
func (uc *InterestUseCase) Accrue(ctx context.Context) ([]InterestCharge, BatchResult, error) {
	var result BatchResult

	if !uc.cfg.RatePercent.IsPositive() {
		uc.logger.Debug().Msg("interest rate is zero, nothing to accrue")
		return nil, result, nil
	}

	entities, err := uc.entityRepo.List(ctx)
	if err != nil {
		return nil, result, err
	}

	now := uc.now()
	var charges []InterestCharge

	for _, e := range entities {
		if !e.Tracked {
			continue
		}

		b, err := uc.aggregate.Balance(ctx, e.ID)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("entity_id", e.ID).Msg("failed to compute balance")
			result.Failed++
			continue
		}

		if !b.Balance.GreaterThan(uc.cfg.Threshold) {
			result.Skipped++
			continue
		}

		interest := b.Balance.Mul(uc.cfg.RatePercent).Div(hundred).Round(interestScale)
		if !interest.GreaterThan(uc.cfg.Threshold) {
			result.Skipped++
			continue
		}

		credit := &domain.CreditEntry{
			ID:        uc.idGen.Generate(),
			EntityID:  e.ID,
			Date:      now,
			Amount:    interest.Neg(),
			Type:      domain.CreditTypeInterest,
			Reason:    fmt.Sprintf("%s%% interest on outstanding balance of %s", uc.cfg.RatePercent, b.Balance.StringFixed(interestScale)),
			CreatedAt: now,
		}

		if err := uc.creditRepo.Create(ctx, credit); err != nil {
			uc.logger.Error().Err(err).Int64("entity_id", e.ID).Msg("failed to post interest")
			result.Failed++
			continue
		}

		charges = append(charges, InterestCharge{
			EntityID: e.ID,
			Balance:  b.Balance,
			Interest: interest,
			CreditID: credit.ID,
		})
		result.Processed++

		uc.enqueue(ctx, domain.RecipientEntity, e.ID, domain.NotificationInterestCharged, domain.SeverityDanger,
			fmt.Sprintf("Interest of %s charged on your outstanding balance of %s", interest.StringFixed(interestScale), b.Balance.StringFixed(interestScale)),
			domain.InterestChargedEvent{
				EntityID: e.ID,
				Balance:  b.Balance.String(),
				Interest: interest.String(),
				Rate:     uc.cfg.RatePercent.String(),
				ChargeAt: now.Format(time.RFC3339),
			}, now)
	}

	uc.logger.Info().
		Int("charged", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("interest accrued")

	return charges, result, nil
}

// NotifyTaxesDue enqueues a taxes-due notification for every account whose balance
// exceeds the threshold.
func (uc *InterestUseCase) NotifyTaxesDue(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return result, err
	}

	now := uc.now()
	for _, a := range accounts {
		summary, err := uc.aggregate.AccountSummary(ctx, a.ID)
		if err != nil {
			uc.logger.Warn().Err(err).Int64("account_id", a.ID).Msg("failed to summarize account")
			result.Failed++
			continue
		}

		if !summary.Balance.GreaterThan(uc.cfg.Threshold) {
			result.Skipped++
			continue
		}

		event := domain.TaxesDueEvent{
			AccountID: a.ID,
			Balance:   summary.Balance.String(),
		}
		if summary.LastPaid != nil {
			event.LastPaid = summary.LastPaid.Format(time.DateOnly)
		}

		if uc.enqueue(ctx, domain.RecipientAccount, a.ID, domain.NotificationTaxesDue, domain.SeverityWarning,
			fmt.Sprintf("You have %s in outstanding mining taxes", summary.Balance.StringFixed(interestScale)),
			event, now) {
			result.Processed++
		} else {
			result.Failed++
		}
	}

	return result, nil
}

// enqueue writes a notification. Failures are logged and never undo a posting.
func (uc *InterestUseCase) enqueue(ctx context.Context, recipientType string, recipientID int64, kind, severity, message string, payload any, now time.Time) bool {
	n, err := domain.NewNotification(uc.idGen.Generate(), recipientType, recipientID, kind, severity, message, payload, now)
	if err == nil {
		err = uc.outbox.Enqueue(ctx, n)
	}

	if err != nil {
		uc.logger.Warn().Err(err).
			Str("kind", kind).
			Int64("recipient_id", recipientID).
			Msg("failed to enqueue notification")
		return false
	}

	return true
}
