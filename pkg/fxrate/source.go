package fxrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Source fetches how many base-currency units buy one converted-currency unit.
type Source interface {
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// HTTPSource reads a rates document of the form {"rates": {"NPR": 133.2}}.
type HTTPSource struct {
	url    string
	quote  string
	client *http.Client
}

// NewHTTPSource creates a source for url reporting the quote currency.
func NewHTTPSource(url, quote string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		quote:  quote,
		client: &http.Client{Timeout: timeout},
	}
}

type ratesResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

func (s *HTTPSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fxrate: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fxrate: fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fxrate: unexpected status %d from %s", resp.StatusCode, s.url)
	}

	var body ratesResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("fxrate: decode response: %w", err)
	}

	raw, ok := body.Rates[s.quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("fxrate: no %s rate in response", s.quote)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("fxrate: parse %s rate: %w", s.quote, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, errors.New("fxrate: rate must be positive")
	}
	return rate, nil
}
