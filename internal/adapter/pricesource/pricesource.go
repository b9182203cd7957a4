// Package pricesource implements usecase.QuoteSource against public market aggregators.
package pricesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// Supported pricing methods.
const (
	MethodFuzzwork = "fuzzwork"
	MethodJanice   = "janice"
)

const (
	defaultFuzzworkURL = "https://market.fuzzwork.co.uk/aggregates/"
	defaultJaniceURL   = "https://janice.e-351.com/api/rest/v2/pricer"
	defaultTimeout     = 30 * time.Second
)

// Config selects and parameterizes a quote source.
type Config struct {
	Method       string
	SourceID     int64
	SourceName   string
	FuzzworkURL  string
	JaniceURL    string
	JaniceAPIKey string
	JaniceMarket int
	Timeout      time.Duration
}

// New returns the quote source named by cfg.Method.
func New(cfg Config) (usecase.QuoteSource, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = defaultTimeout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Method)) {
	case MethodFuzzwork:
		return NewFuzzwork(client, orDefault(cfg.FuzzworkURL, defaultFuzzworkURL), cfg.SourceID), nil
	case MethodJanice:
		if cfg.JaniceAPIKey == "" {
			return nil, fmt.Errorf("%w: janice requires an api key", domain.ErrInvalidConfiguration)
		}
		market := cfg.JaniceMarket
		if market == 0 {
			market = 2
		}
		return NewJanice(client, orDefault(cfg.JaniceURL, defaultJaniceURL), cfg.JaniceAPIKey, market), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPricingMethod, cfg.Method)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// do sends req and returns the body of a successful response. Transport failures and
// non-2xx statuses wrap domain.ErrSourceUnavailable.
func do(client *http.Client, req *http.Request, source string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", source, domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read body: %v", source, domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %w: HTTP %d: %s", source, domain.ErrSourceUnavailable,
			resp.StatusCode, string(body[:min(len(body), 200)]))
	}

	return body, nil
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, url, body)
}
