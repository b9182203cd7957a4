package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// ErrStatsUnavailable is returned when no snapshot has been built yet.
var ErrStatsUnavailable = errors.New("stats snapshot not built yet")

const uncategorized = "Other"

// StatsUseCase rebuilds the derived reporting snapshot from scratch.
type StatsUseCase struct {
	accountRepo     AccountRepository
	entityRepo      EntityRepository
	ledgerRepo      LedgerRepository
	creditRepo      CreditRepository
	commodityRepo   CommodityRepository
	observationRepo ObservationRepository
	txRepo          ObservedTransactionRepository
	statsRepo       StatsRepository
	logger          zerolog.Logger
	now             func() time.Time
}

// NewStatsUseCase creates a new StatsUseCase.
func NewStatsUseCase(
	accountRepo AccountRepository,
	entityRepo EntityRepository,
	ledgerRepo LedgerRepository,
	creditRepo CreditRepository,
	commodityRepo CommodityRepository,
	observationRepo ObservationRepository,
	txRepo ObservedTransactionRepository,
	statsRepo StatsRepository,
	logger zerolog.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		accountRepo:     accountRepo,
		entityRepo:      entityRepo,
		ledgerRepo:      ledgerRepo,
		creditRepo:      creditRepo,
		commodityRepo:   commodityRepo,
		observationRepo: observationRepo,
		txRepo:          txRepo,
		statsRepo:       statsRepo,
		logger:          logger.With().Str("component", "stats").Logger(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Latest returns the last stored snapshot.
func (uc *StatsUseCase) Latest(ctx context.Context) (*domain.StatsSnapshot, error) {
	return uc.statsRepo.Latest(ctx)
}

// Rebuild recomputes the snapshot from the ledger and stores it wholesale.
func (uc *StatsUseCase) Rebuild(ctx context.Context) (*domain.StatsSnapshot, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	entities, err := uc.entityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	lines, err := uc.ledgerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	credits, err := uc.creditRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	commodities, err := uc.commodityRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	observations, err := uc.observationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	unmatchedTx, err := uc.txRepo.ListUnmatched(ctx)
	if err != nil {
		return nil, err
	}

	entityByID := make(map[int64]*domain.Entity, len(entities))
	for _, e := range entities {
		entityByID[e.ID] = e
	}

	linesByEntity := make(map[int64][]*domain.LedgerLine)
	for _, l := range lines {
		linesByEntity[l.EntityID] = append(linesByEntity[l.EntityID], l)
	}

	creditsByEntity := make(map[int64][]*domain.CreditEntry)
	for _, c := range credits {
		creditsByEntity[c.EntityID] = append(creditsByEntity[c.EntityID], c)
	}

	snapshot := &domain.StatsSnapshot{
		GeneratedAt:  uc.now(),
		MonthlyTaxes: monthlyObligations(lines),
	}

	accountNames := make(map[int64]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
		snapshot.Accounts = append(snapshot.Accounts, accountStats(a, entities, linesByEntity, creditsByEntity))
	}

	snapshot.Leaderboard = leaderboard(lines, entityByID, accountNames)
	snapshot.ByLocation = breakdown(lines, func(l *domain.LedgerLine) string {
		return strconv.FormatInt(l.LocationID, 10)
	})

	categories := make(map[int64]string, len(commodities))
	for _, c := range commodities {
		if cat, ok := c.Category(); ok {
			categories[c.ID] = string(cat)
		}
	}
	snapshot.ByCategory = breakdown(lines, func(l *domain.LedgerLine) string {
		if cat, ok := categories[l.CommodityID]; ok {
			return cat
		}
		return uncategorized
	})

	snapshot.Unmatched = unmatchedActivity(observations, entityByID)

	for _, t := range unmatchedTx {
		snapshot.UnmatchedPaid = append(snapshot.UnmatchedPaid, domain.UnmatchedPayment{
			TransactionID: t.ID,
			PayerID:       t.PayerID,
			Date:          t.Date,
			Amount:        t.Amount,
			Reason:        t.Reason,
		})
	}

	if err := uc.statsRepo.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Int("accounts", len(snapshot.Accounts)).
		Int("lines", len(lines)).
		Msg("stats rebuilt")

	return snapshot, nil
}

func accountStats(
	a *domain.Account,
	entities []*domain.Entity,
	linesByEntity map[int64][]*domain.LedgerLine,
	creditsByEntity map[int64][]*domain.CreditEntry,
) domain.AccountStats {
	row := domain.AccountStats{
		AccountID:       a.ID,
		Name:            a.Name,
		PrimaryEntityID: a.PrimaryEntityID,
		Obligations:     decimal.Zero,
		Credits:         decimal.Zero,
	}

	var series [][]domain.MonthlyAmount
	for _, e := range entities {
		if e.AccountID != a.ID {
			continue
		}

		b := entityBalance(e.ID, linesByEntity[e.ID], creditsByEntity[e.ID])
		row.EntityCount++
		row.Obligations = row.Obligations.Add(b.Obligations)
		row.Credits = row.Credits.Add(b.Credits)
		row.LastPaid = latest(row.LastPaid, b.LastPaid)
		series = append(series, monthlyObligations(linesByEntity[e.ID]))
	}

	row.Balance = row.Obligations.Sub(row.Credits)
	row.MonthlyTaxes = domain.MergeMonthly(series...)

	return row
}

// leaderboard ranks accounts by taxed value mined per month, highest first.
func leaderboard(lines []*domain.LedgerLine, entities map[int64]*domain.Entity, names map[int64]string) []domain.LeaderboardMonth {
	months := make(map[time.Time]map[int64]decimal.Decimal)
	for _, l := range lines {
		e, ok := entities[l.EntityID]
		if !ok || e.IsOrphan() {
			continue
		}

		m := domain.Month(l.Date)
		if months[m] == nil {
			months[m] = make(map[int64]decimal.Decimal)
		}
		months[m][e.AccountID] = months[m][e.AccountID].Add(l.TaxedValue)
	}

	out := make([]domain.LeaderboardMonth, 0, len(months))
	for m, byAccount := range months {
		month := domain.LeaderboardMonth{Month: m}
		for id, value := range byAccount {
			month.Entries = append(month.Entries, domain.LeaderboardEntry{
				AccountID:  id,
				Name:       names[id],
				MinedValue: value,
			})
		}
		sort.Slice(month.Entries, func(i, j int) bool {
			if month.Entries[i].MinedValue.Equal(month.Entries[j].MinedValue) {
				return month.Entries[i].AccountID < month.Entries[j].AccountID
			}
			return month.Entries[i].MinedValue.GreaterThan(month.Entries[j].MinedValue)
		})
		out = append(out, month)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

func breakdown(lines []*domain.LedgerLine, key func(*domain.LedgerLine) string) []domain.BreakdownRow {
	rows := make(map[string]*domain.BreakdownRow)
	for _, l := range lines {
		k := key(l)
		row, ok := rows[k]
		if !ok {
			row = &domain.BreakdownRow{Key: k, TaxedValue: decimal.Zero, TaxesOwed: decimal.Zero}
			rows[k] = row
		}
		row.Quantity += l.Quantity
		row.TaxedValue = row.TaxedValue.Add(l.TaxedValue)
		row.TaxesOwed = row.TaxesOwed.Add(l.TaxesOwed)
	}

	out := make([]domain.BreakdownRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// unmatchedActivity totals observations by entities that are unknown or untracked.
func unmatchedActivity(observations []*domain.Observation, entities map[int64]*domain.Entity) []domain.UnmatchedActivity {
	type key struct{ entity, location, commodity int64 }

	rows := make(map[key]*domain.UnmatchedActivity)
	for _, o := range observations {
		if e, ok := entities[o.EntityID]; ok && e.Tracked {
			continue
		}

		k := key{o.EntityID, o.LocationID, o.CommodityID}
		row, ok := rows[k]
		if !ok {
			row = &domain.UnmatchedActivity{EntityID: o.EntityID, LocationID: o.LocationID, CommodityID: o.CommodityID}
			rows[k] = row
		}
		row.Quantity += o.Quantity
		if o.Date.After(row.LastSeen) {
			row.LastSeen = o.Date
		}
	}

	out := make([]domain.UnmatchedActivity, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntityID != out[j].EntityID {
			return out[i].EntityID < out[j].EntityID
		}
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].CommodityID < out[j].CommodityID
	})

	return out
}
