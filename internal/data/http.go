package data

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/contactkeval/backtestlab/internal/model"
)

// HTTPProvider fetches daily aggregate bars from a Polygon-style
// "/v2/aggs/ticker/{symbol}/range/1/day/{from}/{to}" endpoint via resty.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	client  *resty.Client
}

// NewHTTPProvider is a convenience constructor. baseURL has no trailing
// slash, e.g. "https://api.polygon.io".
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  resty.New().SetTimeout(30 * time.Second),
	}
}

type aggsResponse struct {
	Results []struct {
		T int64   `json:"t"` // unix millis
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V float64 `json:"v"`
	} `json:"results"`
}

func (p *HTTPProvider) GetDailyBars(symbol string, from, to time.Time) ([]model.Bar, error) {
	var body aggsResponse
	resp, err := p.client.R().
		SetResult(&body).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"limit":    "50000",
			"apiKey":   p.APIKey,
		}).
		Get(fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
			p.BaseURL, symbol, from.Format("2006-01-02"), to.Format("2006-01-02")))
	if err != nil {
		return nil, fmt.Errorf("data: fetch bars for %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("data: aggs request for %s returned status %d", symbol, resp.StatusCode())
	}

	out := make([]model.Bar, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, model.Bar{
			Time:   time.UnixMilli(r.T).UTC(),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		})
	}
	return out, nil
}
