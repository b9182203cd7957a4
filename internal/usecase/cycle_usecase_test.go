package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase/mocks"
)

type recordingObserver struct {
	mu    sync.Mutex
	steps []string
	errs  int
}

func (o *recordingObserver) ObserveStep(step string, _ time.Duration, _ usecase.BatchResult, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.steps = append(o.steps, step)
	if err != nil {
		o.errs++
	}
}

func newCycle(e *engine, activity usecase.ActivitySource, observer usecase.StepObserver) *usecase.CycleUseCase {
	c := usecase.NewCycleUseCase(usecase.CycleDeps{
		Pricing:         e.pricing,
		Ledger:          e.ledger,
		Reconciliation:  e.reconciliation,
		Interest:        e.interest,
		Stats:           e.stats,
		Activity:        activity,
		ObservationRepo: e.observations,
		Outbox:          e.outbox,
		Guard:           e.guard,
		Observer:        observer,
	}, e.cfg, zerolog.Nop())
	c.SetNow(fixedNow)
	return c
}

func TestCycleRun_EndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockQuoteSource(ctrl)
	activity := mocks.NewMockActivitySource(ctrl)

	e := newEngine(source, withInterest("10", "0.01"))
	seedMiner(e)
	e.seedCommodities(plainCommodity(45511, 462))

	source.EXPECT().Name().Return("fake").AnyTimes()
	source.EXPECT().FetchQuotes(gomock.Any(), []int64{45511}).
		Return(map[int64]domain.Quote{45511: {Buy: d("10"), Sell: d("12"), ObservedAt: testNow}}, nil).
		Times(2)

	activity.EXPECT().Observations(gomock.Any(), testNow.Add(-e.cfg.ObservationRetention)).
		Return([]*domain.Observation{
			{EntityID: miner, Date: testDay, LocationID: locationA, CommodityID: 45511, Quantity: 10, Source: domain.ObservationPersonal},
			{EntityID: miner, Date: testDay, LocationID: locationA, CommodityID: 45511, Quantity: 10, Source: domain.ObservationObserver},
		}, nil).
		Times(2)
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).
		Return([]*domain.ObservedTransaction{payment(1, miner, "5", "tax")}, nil).
		Times(2)

	observer := &recordingObserver{}
	cycle := newCycle(e, activity, observer)

	report := cycle.Run(context.Background(), usecase.CycleOptions{AccrueInterest: true})
	if report.Failed() {
		t.Fatalf("unexpected failure: %v", report.Err())
	}
	if report.RunID == "" {
		t.Fatal("expected a run id")
	}

	wantSteps := []string{
		usecase.StepRefreshQuotes,
		usecase.StepRecomputeValuations,
		usecase.StepProcessObservations,
		usecase.StepReconcile,
		usecase.StepAccrueInterest,
		usecase.StepNotifyTaxesDue,
		usecase.StepPurgeObservations,
		usecase.StepRebuildStats,
	}
	if len(report.Steps) != len(wantSteps) {
		t.Fatalf("expected %d steps, got %d", len(wantSteps), len(report.Steps))
	}
	for i, s := range report.Steps {
		if s.Name != wantSteps[i] {
			t.Fatalf("step %d: expected %s, got %s", i, wantSteps[i], s.Name)
		}
	}
	if len(observer.steps) != len(wantSteps) {
		t.Fatalf("expected observer to see every step, got %v", observer.steps)
	}

	// 100 taxed at 10% = 10, minus 5 paid, plus 10% interest on 5.
	b, _ := e.aggregate.Balance(context.Background(), miner)
	if !b.Balance.Equal(d("5.5")) {
		t.Fatalf("expected balance 5.5, got %s", b.Balance)
	}

	if _, err := e.stats.Latest(context.Background()); err != nil {
		t.Fatalf("expected stats snapshot: %v", err)
	}

	if len(e.outbox.All()) != 2 {
		t.Fatalf("expected interest and taxes-due notifications, got %d", len(e.outbox.All()))
	}

	second := cycle.Run(context.Background(), usecase.CycleOptions{AccrueInterest: true})
	step, ok := second.Step(usecase.StepAccrueInterest)
	if !ok || !step.Skipped {
		t.Fatalf("expected interest to be skipped on the second run, got %+v", step)
	}

	b, _ = e.aggregate.Balance(context.Background(), miner)
	if !b.Balance.Equal(d("5.5")) {
		t.Fatalf("expected balance unchanged by the second run, got %s", b.Balance)
	}
}

func TestCycleRun_IsolatesStepFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockQuoteSource(ctrl)
	activity := mocks.NewMockActivitySource(ctrl)

	e := newEngine(source)
	seedMiner(e)
	e.seedCommodities(plainCommodity(45511, 462))

	source.EXPECT().Name().Return("fake").AnyTimes()
	source.EXPECT().FetchQuotes(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("gateway timeout"))
	activity.EXPECT().Observations(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("upstream down"))
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).
		Return(nil, nil)

	observer := &recordingObserver{}
	report := newCycle(e, activity, observer).Run(context.Background(), usecase.CycleOptions{})

	if !report.Failed() || !report.Retryable() {
		t.Fatalf("expected a retryable failure, got %+v", report.Steps)
	}
	if !errors.Is(report.Err(), domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable in joined error, got %v", report.Err())
	}
	if _, ok := report.Step(usecase.StepAccrueInterest); ok {
		t.Fatal("expected interest step to be absent when disabled")
	}

	stats, ok := report.Step(usecase.StepRebuildStats)
	if !ok || stats.Err != nil {
		t.Fatalf("expected later steps to still run, got %+v", stats)
	}
	if observer.errs != 2 {
		t.Fatalf("expected 2 failed steps observed, got %d", observer.errs)
	}
}

func TestCycleRun_ConfigurationErrorIsNotRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	activity := mocks.NewMockActivitySource(ctrl)
	activity.EXPECT().Observations(gomock.Any(), gomock.Any()).Return(nil, nil)
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil)

	e := newEngine(nil)
	report := newCycle(e, activity, nil).Run(context.Background(), usecase.CycleOptions{})

	if !report.Failed() {
		t.Fatal("expected refresh to fail without a quote source")
	}
	if report.Retryable() {
		t.Fatal("expected configuration errors not to be retryable")
	}
}

func TestCycleRun_PurgesOldObservations(t *testing.T) {
	ctrl := gomock.NewController(t)
	activity := mocks.NewMockActivitySource(ctrl)
	activity.EXPECT().Observations(gomock.Any(), gomock.Any()).Return(nil, nil)
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil)

	e := newEngine(nil)
	_ = e.observations.Upsert(context.Background(), &domain.Observation{EntityID: miner, Date: testDay.AddDate(-1, 0, 0), LocationID: locationA, CommodityID: 1, Quantity: 1, Source: domain.ObservationPersonal})
	_ = e.observations.Upsert(context.Background(), &domain.Observation{EntityID: miner, Date: testDay, LocationID: locationA, CommodityID: 1, Quantity: 1, Source: domain.ObservationPersonal})

	report := newCycle(e, activity, nil).Run(context.Background(), usecase.CycleOptions{})

	step, _ := report.Step(usecase.StepPurgeObservations)
	if step.Result.Processed != 1 {
		t.Fatalf("expected 1 purged observation, got %+v", step)
	}

	left, _ := e.observations.List(context.Background())
	if len(left) != 1 {
		t.Fatalf("expected 1 observation left, got %d", len(left))
	}
}

func TestCycleRun_RetriesInterestAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockQuoteSource(ctrl)
	activity := mocks.NewMockActivitySource(ctrl)
	source.EXPECT().Name().Return("fake").AnyTimes()
	activity.EXPECT().Observations(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	e := newEngine(source, withInterest("10", "0.01"))
	seedMiner(e)
	seedLine(e, miner, testDay, 1, "100")

	calls := 0
	e.entities.ListFunc = func(ctx context.Context) ([]*domain.Entity, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		e.entities.ListFunc = nil
		return e.entities.List(ctx)
	}

	cycle := newCycle(e, activity, nil)
	key := usecase.InterestPeriodKey(testNow)

	first := cycle.Run(context.Background(), usecase.CycleOptions{AccrueInterest: true})
	step, _ := first.Step(usecase.StepAccrueInterest)
	if step.Err == nil || !first.Retryable() {
		t.Fatalf("expected a retryable interest failure, got %+v", step)
	}
	if e.guard.Held(key) {
		t.Fatal("expected the interest guard to be released after a failure")
	}

	second := cycle.Run(context.Background(), usecase.CycleOptions{AccrueInterest: true})
	step, _ = second.Step(usecase.StepAccrueInterest)
	if step.Skipped || step.Err != nil || step.Result.Processed != 1 {
		t.Fatalf("expected the retry to charge interest, got %+v", step)
	}
	if !e.guard.Held(key) {
		t.Fatal("expected the interest guard to be held after a successful run")
	}

	b, _ := e.aggregate.Balance(context.Background(), miner)
	if !b.Balance.Equal(d("110")) {
		t.Fatalf("expected balance 110 after interest, got %s", b.Balance)
	}
}

func TestCycleRun_NotifiesTaxesDueOncePerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockQuoteSource(ctrl)
	activity := mocks.NewMockActivitySource(ctrl)
	source.EXPECT().Name().Return("fake").AnyTimes()
	activity.EXPECT().Observations(gomock.Any(), gomock.Any()).Return(nil, nil).Times(3)
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil).Times(3)

	e := newEngine(source, withInterest("0", "1"))
	seedMiner(e)
	seedLine(e, miner, testDay, 1, "50")

	cycle := newCycle(e, activity, nil)

	cycle.Run(context.Background(), usecase.CycleOptions{})
	second := cycle.Run(context.Background(), usecase.CycleOptions{})

	step, ok := second.Step(usecase.StepNotifyTaxesDue)
	if !ok || !step.Skipped {
		t.Fatalf("expected taxes-due to be skipped on the same day, got %+v", step)
	}
	if len(e.outbox.All()) != 1 {
		t.Fatalf("expected a single taxes-due notification, got %d", len(e.outbox.All()))
	}

	cycle.SetNow(func() time.Time { return testNow.AddDate(0, 0, 1) })
	third := cycle.Run(context.Background(), usecase.CycleOptions{})
	step, _ = third.Step(usecase.StepNotifyTaxesDue)
	if step.Skipped || step.Result.Processed != 1 {
		t.Fatalf("expected taxes-due to run on the next day, got %+v", step)
	}
	if len(e.outbox.All()) != 2 {
		t.Fatalf("expected a second notification the next day, got %d", len(e.outbox.All()))
	}
}

func TestCycleRun_ReleasesTaxesDueGuardOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	activity := mocks.NewMockActivitySource(ctrl)
	activity.EXPECT().Observations(gomock.Any(), gomock.Any()).Return(nil, nil)
	activity.EXPECT().Transactions(gomock.Any(), gomock.Any()).Return(nil, nil)

	e := newEngine(nil)
	e.accounts.ListFunc = func(context.Context) ([]*domain.Account, error) {
		return nil, errors.New("connection reset")
	}

	report := newCycle(e, activity, nil).Run(context.Background(), usecase.CycleOptions{})

	step, _ := report.Step(usecase.StepNotifyTaxesDue)
	if step.Err == nil {
		t.Fatal("expected taxes-due to fail")
	}
	if e.guard.Held(usecase.TaxesDuePeriodKey(testNow)) {
		t.Fatal("expected the taxes-due guard to be released after a failure")
	}
}
