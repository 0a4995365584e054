package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stockduel/internal/domain"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider fetches stock quotes from the Finnhub API.
type FinnhubProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

// NewFinnhubProvider creates a provider with built-in rate limiting.
// The free tier allows 60 requests per minute.
func NewFinnhubProvider(apiKey string, tracer trace.Tracer) *FinnhubProvider {
	return &FinnhubProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: finnhubBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// FetchQuote fetches the current quote for one symbol.
func (p *FinnhubProvider) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "finnhub.fetch-quote")
	defer span.End()

	endpoint := fmt.Sprintf("%s/quote?symbol=%s", p.baseURL, url.QueryEscape(symbol))
	body, err := p.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}

	// Response shape: {"c":228.87,"d":1.76,"dp":0.77,"h":229.5,"l":226.3,"o":227.1,"pc":227.11,"t":1724428800}
	var raw struct {
		Current   float64 `json:"c"`
		Change    float64 `json:"d"`
		ChangePct float64 `json:"dp"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Open      float64 `json:"o"`
		PrevClose float64 `json:"pc"`
		Timestamp int64   `json:"t"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", symbol, err)
	}

	// Finnhub answers unknown symbols with an all-zero quote body.
	if raw.Current == 0 && raw.Timestamp == 0 {
		return nil, fmt.Errorf("quote for %s: %w", symbol, domain.ErrMissingPrice)
	}

	return &domain.Quote{
		Symbol:      symbol,
		Price:       raw.Current,
		Change:      raw.Change,
		ChangePct:   raw.ChangePct,
		Open:        raw.Open,
		High:        raw.High,
		Low:         raw.Low,
		PrevClose:   raw.PrevClose,
		UpdatedUnix: raw.Timestamp,
	}, nil
}

func (p *FinnhubProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Finnhub-Token", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("finnhub API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
