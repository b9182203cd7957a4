package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// Fuzzwork reads station aggregates from market.fuzzwork.co.uk.
type Fuzzwork struct {
	client    *http.Client
	baseURL   string
	stationID int64
	now       func() time.Time
}

// NewFuzzwork creates a Fuzzwork source for one station.
func NewFuzzwork(client *http.Client, baseURL string, stationID int64) *Fuzzwork {
	return &Fuzzwork{
		client:    client,
		baseURL:   baseURL,
		stationID: stationID,
		now:       time.Now,
	}
}

// Name implements usecase.QuoteSource.
func (f *Fuzzwork) Name() string {
	return MethodFuzzwork
}

type fuzzworkSide struct {
	WeightedAverage decimal.Decimal `json:"weightedAverage"`
	Max             decimal.Decimal `json:"max"`
	Min             decimal.Decimal `json:"min"`
	Volume          decimal.Decimal `json:"volume"`
	OrderCount      decimal.Decimal `json:"orderCount"`
}

type fuzzworkAggregate struct {
	Buy  fuzzworkSide `json:"buy"`
	Sell fuzzworkSide `json:"sell"`
}

// FetchQuotes returns the best buy (highest bid) and sell (lowest ask) per type.
// Types without any order are omitted.
func (f *Fuzzwork) FetchQuotes(ctx context.Context, ids []int64) (map[int64]domain.Quote, error) {
	if len(ids) == 0 {
		return map[int64]domain.Quote{}, nil
	}

	types := make([]string, 0, len(ids))
	for _, id := range ids {
		types = append(types, strconv.FormatInt(id, 10))
	}

	q := url.Values{}
	q.Set("station", strconv.FormatInt(f.stationID, 10))
	q.Set("types", strings.Join(types, ","))

	req, err := newRequest(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("fuzzwork: build request: %w", err)
	}

	body, err := do(f.client, req, MethodFuzzwork)
	if err != nil {
		return nil, err
	}

	var aggregates map[string]fuzzworkAggregate
	if err := json.Unmarshal(body, &aggregates); err != nil {
		return nil, fmt.Errorf("fuzzwork: %w: decode: %v", domain.ErrSourceUnavailable, err)
	}

	observed := f.now().UTC()
	quotes := make(map[int64]domain.Quote, len(aggregates))
	for key, agg := range aggregates {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if agg.Buy.Max.IsZero() && agg.Sell.Min.IsZero() {
			continue
		}
		quotes[id] = domain.Quote{
			CommodityID: id,
			Buy:         agg.Buy.Max,
			Sell:        agg.Sell.Min,
			ObservedAt:  observed,
		}
	}

	return quotes, nil
}
