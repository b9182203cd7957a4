package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// Cycle step names, in execution order.
const (
	StepRefreshQuotes       = "refresh_quotes"
	StepRecomputeValuations = "recompute_valuations"
	StepProcessObservations = "process_observations"
	StepReconcile           = "reconcile"
	StepAccrueInterest      = "accrue_interest"
	StepNotifyTaxesDue      = "notify_taxes_due"
	StepPurgeObservations   = "purge_observations"
	StepRebuildStats        = "rebuild_stats"
)

// CycleUseCase runs the daily batch: quotes, valuations, ledger lines, payments,
// interest, notifications, purge, stats. A failing step never stops later steps.
type CycleUseCase struct {
	pricing         *PricingUseCase
	ledger          *LedgerUseCase
	reconciliation  *ReconciliationUseCase
	interest        *InterestUseCase
	stats           *StatsUseCase
	activity        ActivitySource
	observationRepo ObservationRepository
	outbox          NotificationOutbox
	guard           PeriodGuard
	observer        StepObserver
	cfg             EngineConfig
	logger          zerolog.Logger
	now             func() time.Time
}

// CycleDeps groups the collaborators of CycleUseCase.
type CycleDeps struct {
	Pricing         *PricingUseCase
	Ledger          *LedgerUseCase
	Reconciliation  *ReconciliationUseCase
	Interest        *InterestUseCase
	Stats           *StatsUseCase
	Activity        ActivitySource
	ObservationRepo ObservationRepository
	Outbox          NotificationOutbox
	Guard           PeriodGuard
	// Observer is optional.
	Observer StepObserver
}

// NewCycleUseCase creates a new CycleUseCase.
func NewCycleUseCase(deps CycleDeps, cfg EngineConfig, logger zerolog.Logger) *CycleUseCase {
	observer := deps.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	return &CycleUseCase{
		pricing:         deps.Pricing,
		ledger:          deps.Ledger,
		reconciliation:  deps.Reconciliation,
		interest:        deps.Interest,
		stats:           deps.Stats,
		activity:        deps.Activity,
		observationRepo: deps.ObservationRepo,
		outbox:          deps.Outbox,
		guard:           deps.Guard,
		observer:        observer,
		cfg:             cfg,
		logger:          logger.With().Str("component", "cycle").Logger(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// CycleOptions tunes a single run.
type CycleOptions struct {
	// AccrueInterest enables the interest step. It still runs at most once per month.
	AccrueInterest bool
	// Since limits the activity read; zero means the retention window.
	Since time.Time
}

// StepReport is the outcome of one cycle step.
type StepReport struct {
	Name     string        `json:"name"`
	Result   BatchResult   `json:"result"`
	Duration time.Duration `json:"duration"`
	Skipped  bool          `json:"skipped,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// CycleReport collects every step of one run.
type CycleReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepReport `json:"steps"`
}

// Failed reports whether any step returned an error.
func (r *CycleReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Retryable reports whether a failed run is worth repeating: at least one step
// failed for a reason other than invalid configuration.
func (r *CycleReport) Retryable() bool {
	for _, s := range r.Steps {
		if s.Err != nil && !domain.IsConfigurationError(s.Err) {
			return true
		}
	}
	return false
}

// Err joins every step error.
func (r *CycleReport) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// Step returns the named step report.
func (r *CycleReport) Step(name string) (StepReport, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepReport{}, false
}

// Run executes every step in order and returns the report.
func (uc *CycleUseCase) Run(ctx context.Context, opts CycleOptions) *CycleReport {
	now := uc.now()
	report := &CycleReport{
		RunID:     uuid.NewString(),
		StartedAt: now,
	}
	logger := uc.logger.With().Str("cycle_id", report.RunID).Logger()

	since := opts.Since
	if since.IsZero() {
		since = now.Add(-uc.cfg.ObservationRetention)
	}

	uc.step(ctx, logger, report, StepRefreshQuotes, uc.pricing.RefreshQuotes)
	uc.step(ctx, logger, report, StepRecomputeValuations, uc.pricing.RecomputeValuations)

	uc.step(ctx, logger, report, StepProcessObservations, func(ctx context.Context) (BatchResult, error) {
		observations, err := uc.activity.Observations(ctx, since)
		if err != nil {
			return BatchResult{}, err
		}
		return uc.ledger.ProcessObservations(ctx, observations)
	})

	uc.step(ctx, logger, report, StepReconcile, func(ctx context.Context) (BatchResult, error) {
		transactions, err := uc.activity.Transactions(ctx, since)
		if err != nil {
			return BatchResult{}, err
		}
		res, err := uc.reconciliation.Reconcile(ctx, transactions)
		if err != nil {
			return BatchResult{}, err
		}
		return res.BatchResult, nil
	})

	if opts.AccrueInterest {
		uc.step(ctx, logger, report, StepAccrueInterest, uc.guarded(logger, InterestPeriodKey(now), InterestPeriodTTL, func(ctx context.Context) (BatchResult, error) {
			_, res, err := uc.interest.Accrue(ctx)
			return res, err
		}))
	}

	uc.step(ctx, logger, report, StepNotifyTaxesDue, uc.guarded(logger, TaxesDuePeriodKey(now), TaxesDuePeriodTTL, uc.interest.NotifyTaxesDue))

	uc.step(ctx, logger, report, StepPurgeObservations, func(ctx context.Context) (BatchResult, error) {
		purged, err := uc.observationRepo.PurgeBefore(ctx, now.Add(-uc.cfg.ObservationRetention))
		if err != nil {
			return BatchResult{}, err
		}
		if err := uc.outbox.DeletePublished(ctx, now.Add(-uc.cfg.ObservationRetention)); err != nil {
			logger.Warn().Err(err).Msg("failed to delete published notifications")
		}
		return BatchResult{Processed: int(purged)}, nil
	})

	uc.step(ctx, logger, report, StepRebuildStats, func(ctx context.Context) (BatchResult, error) {
		snapshot, err := uc.stats.Rebuild(ctx)
		if err != nil {
			return BatchResult{}, err
		}
		return BatchResult{Processed: len(snapshot.Accounts)}, nil
	})

	report.FinishedAt = uc.now()

	event := logger.Info()
	if report.Failed() {
		event = logger.Warn().Err(report.Err())
	}
	event.Dur("duration", report.FinishedAt.Sub(report.StartedAt)).Msg("cycle finished")

	return report
}

var errStepSkipped = errors.New("step skipped")

// guarded runs fn at most once per period key. The key is released when fn fails
// so a retry within the same period runs fn again.
func (uc *CycleUseCase) guarded(
	logger zerolog.Logger,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) (BatchResult, error),
) func(ctx context.Context) (BatchResult, error) {
	return func(ctx context.Context) (BatchResult, error) {
		acquired, err := uc.guard.Acquire(ctx, key, ttl)
		if err != nil {
			return BatchResult{}, err
		}
		if !acquired {
			logger.Info().Str("period", key).Msg("step already ran for this period")
			return BatchResult{}, errStepSkipped
		}

		res, err := fn(ctx)
		if err != nil {
			if relErr := uc.guard.Release(ctx, key); relErr != nil {
				logger.Error().Err(relErr).Str("period", key).Msg("failed to release period guard")
			}
		}
		return res, err
	}
}

func (uc *CycleUseCase) step(
	ctx context.Context,
	logger zerolog.Logger,
	report *CycleReport,
	name string,
	fn func(ctx context.Context) (BatchResult, error),
) {
	start := time.Now()
	res, err := fn(ctx)
	duration := time.Since(start)

	s := StepReport{Name: name, Result: res, Duration: duration}
	switch {
	case errors.Is(err, errStepSkipped):
		s.Skipped = true
		err = nil
	case err != nil:
		s.Err = err
		s.Error = err.Error()
		logger.Error().Err(err).Str("step", name).Msg("cycle step failed")
	default:
		logger.Info().
			Str("step", name).
			Int("processed", res.Processed).
			Int("skipped", res.Skipped).
			Int("failed", res.Failed).
			Dur("duration", duration).
			Msg("cycle step done")
	}

	uc.observer.ObserveStep(name, duration, res, err)
	report.Steps = append(report.Steps, s)
}
