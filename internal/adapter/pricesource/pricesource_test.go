package pricesource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

var fixedNow = time.Date(2022, time.January, 15, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr error
	}{
		{"fuzzwork", Config{Method: "Fuzzwork", SourceID: 60003760}, MethodFuzzwork, nil},
		{"janice", Config{Method: "janice", JaniceAPIKey: "key"}, MethodJanice, nil},
		{"janice without key", Config{Method: "janice"}, "", domain.ErrInvalidConfiguration},
		{"unknown", Config{Method: "evepraisal"}, "", domain.ErrUnknownPricingMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := New(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, domain.IsConfigurationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, source.Name())
		})
	}
}

func TestFuzzworkFetchQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "60003760", r.URL.Query().Get("station"))
		assert.Equal(t, "34,1230,99999", r.URL.Query().Get("types"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"34": {"buy": {"max": "5.01", "weightedAverage": "4.9"}, "sell": {"min": "5.30"}},
			"1230": {"buy": {"max": 18.5}, "sell": {"min": 19}},
			"99999": {"buy": {"max": "0"}, "sell": {"min": "0"}}
		}`)
	}))
	defer srv.Close()

	source := NewFuzzwork(srv.Client(), srv.URL, 60003760)
	source.now = func() time.Time { return fixedNow }

	quotes, err := source.FetchQuotes(context.Background(), []int64{34, 1230, 99999})
	require.NoError(t, err)

	require.Len(t, quotes, 2)
	assert.True(t, quotes[34].Buy.Equal(decimal.RequireFromString("5.01")))
	assert.True(t, quotes[34].Sell.Equal(decimal.RequireFromString("5.3")))
	assert.True(t, quotes[1230].Buy.Equal(decimal.RequireFromString("18.5")))
	assert.Equal(t, fixedNow, quotes[1230].ObservedAt)
	_, ok := quotes[99999]
	assert.False(t, ok, "types without orders are omitted")
}

func TestFuzzworkUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFuzzwork(srv.Client(), srv.URL, 60003760).FetchQuotes(context.Background(), []int64{34})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "502")
}

func TestFuzzworkMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer srv.Close()

	_, err := NewFuzzwork(srv.Client(), srv.URL, 60003760).FetchQuotes(context.Background(), []int64{34})
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestFuzzworkEmptyBatch(t *testing.T) {
	source := NewFuzzwork(http.DefaultClient, "http://127.0.0.1:0", 60003760)

	quotes, err := source.FetchQuotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestJaniceFetchQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-ApiKey"))
		assert.Equal(t, "2", r.URL.Query().Get("market"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "34\n1230", string(body))
		_, _ = io.WriteString(w, `[
			{"itemType": {"eid": 34}, "immediatePrices": {"buyPrice": 5.01, "sellPrice": 5.3}},
			{"itemType": {"eid": 1230}, "immediatePrices": {"buyPrice": 18.5, "sellPrice": 19}}
		]`)
	}))
	defer srv.Close()

	source := NewJanice(srv.Client(), srv.URL, "secret", 2)
	source.now = func() time.Time { return fixedNow }

	quotes, err := source.FetchQuotes(context.Background(), []int64{34, 1230})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.True(t, quotes[1230].Sell.Equal(decimal.RequireFromString("19")))
	assert.Equal(t, int64(34), quotes[34].CommodityID)
}

func TestJaniceUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewJanice(srv.Client(), srv.URL, "wrong", 2).FetchQuotes(context.Background(), []int64{34})
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
