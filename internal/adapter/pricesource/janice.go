package pricesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// Janice reads immediate prices from the Janice appraisal API.
type Janice struct {
	client  *http.Client
	baseURL string
	apiKey  string
	market  int
	now     func() time.Time
}

// NewJanice creates a Janice source for one market.
func NewJanice(client *http.Client, baseURL, apiKey string, market int) *Janice {
	return &Janice{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		market:  market,
		now:     time.Now,
	}
}

// Name implements usecase.QuoteSource.
func (j *Janice) Name() string {
	return MethodJanice
}

type janiceItem struct {
	ItemType struct {
		EID int64 `json:"eid"`
	} `json:"itemType"`
	ImmediatePrices struct {
		BuyPrice  decimal.Decimal `json:"buyPrice"`
		SellPrice decimal.Decimal `json:"sellPrice"`
	} `json:"immediatePrices"`
}

// FetchQuotes posts the ids as a newline separated list and maps the returned items.
func (j *Janice) FetchQuotes(ctx context.Context, ids []int64) (map[int64]domain.Quote, error) {
	if len(ids) == 0 {
		return map[int64]domain.Quote{}, nil
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, strconv.FormatInt(id, 10))
	}

	endpoint := fmt.Sprintf("%s?market=%d", j.baseURL, j.market)
	req, err := newRequest(ctx, http.MethodPost, endpoint, strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return nil, fmt.Errorf("janice: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-ApiKey", j.apiKey)

	body, err := do(j.client, req, MethodJanice)
	if err != nil {
		return nil, err
	}

	var items []janiceItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("janice: %w: decode: %v", domain.ErrSourceUnavailable, err)
	}

	observed := j.now().UTC()
	quotes := make(map[int64]domain.Quote, len(items))
	for _, item := range items {
		id := item.ItemType.EID
		if id == 0 {
			continue
		}
		quotes[id] = domain.Quote{
			CommodityID: id,
			Buy:         item.ImmediatePrices.BuyPrice,
			Sell:        item.ImmediatePrices.SellPrice,
			ObservedAt:  observed,
		}
	}

	return quotes, nil
}
