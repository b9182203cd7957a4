package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyAmount is the sum of amounts dated within one calendar month.
type MonthlyAmount struct {
	Month  time.Time       `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// SumByMonth buckets items by the month of date(item) and returns the buckets in
// ascending month order.
func SumByMonth[T any](items []T, date func(T) time.Time, amount func(T) decimal.Decimal) []MonthlyAmount {
	buckets := make(map[time.Time]decimal.Decimal)
	for _, it := range items {
		m := Month(date(it))
		buckets[m] = buckets[m].Add(amount(it))
	}

	return sortedMonths(buckets)
}

// MergeMonthly adds several monthly series together.
func MergeMonthly(series ...[]MonthlyAmount) []MonthlyAmount {
	buckets := make(map[time.Time]decimal.Decimal)
	for _, s := range series {
		for _, m := range s {
			buckets[m.Month] = buckets[m.Month].Add(m.Amount)
		}
	}

	return sortedMonths(buckets)
}

// Total sums a monthly series.
func Total(series []MonthlyAmount) decimal.Decimal {
	total := decimal.Zero
	for _, m := range series {
		total = total.Add(m.Amount)
	}
	return total
}

func sortedMonths(buckets map[time.Time]decimal.Decimal) []MonthlyAmount {
	out := make([]MonthlyAmount, 0, len(buckets))
	for m, amt := range buckets {
		out = append(out, MonthlyAmount{Month: m, Amount: amt})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})

	return out
}
