package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stockduel/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

type stubQuoteSource struct {
	mu     sync.Mutex
	prices map[string]float64
	errs   map[string]error
	calls  int
}

func (s *stubQuoteSource) RefreshQuote(_ context.Context, symbol string) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.errs[symbol]; err != nil {
		return nil, err
	}
	return &domain.Quote{Symbol: symbol, Price: s.prices[symbol]}, nil
}

func (s *stubQuoteSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubPredictionPrices struct {
	mu      sync.Mutex
	symbols []string
	listErr error
	updated map[string]float64
}

func (s *stubPredictionPrices) ListActiveSymbols(_ context.Context) ([]string, error) {
	return s.symbols, s.listErr
}

func (s *stubPredictionPrices) UpdateCurrentPrice(_ context.Context, symbol string, price float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updated == nil {
		s.updated = make(map[string]float64)
	}
	s.updated[symbol] = price
	return 3, nil
}

func (s *stubPredictionPrices) snapshot() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.updated))
	for k, v := range s.updated {
		out[k] = v
	}
	return out
}

type stubFollowReturns struct {
	mu      sync.Mutex
	updated map[string]float64
}

func (s *stubFollowReturns) RefreshBySymbol(_ context.Context, symbol string, price float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updated == nil {
		s.updated = make(map[string]float64)
	}
	s.updated[symbol] = price
	return 1, nil
}

func (s *stubFollowReturns) snapshot() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.updated))
	for k, v := range s.updated {
		out[k] = v
	}
	return out
}

func TestQuoteRefresherPass(t *testing.T) {
	t.Parallel()

	quotes := &stubQuoteSource{prices: map[string]float64{"AAPL": 182.5, "MSFT": 410, "KO": 60.1}}
	preds := &stubPredictionPrices{symbols: []string{"AAPL", "MSFT", "KO"}}
	follows := &stubFollowReturns{}
	refresher := NewQuoteRefresher(testTracer, quotes, preds, follows, time.Minute, 2)

	refresher.refresh(context.Background())

	got := preds.snapshot()
	if len(got) != 3 || got["AAPL"] != 182.5 || got["MSFT"] != 410 || got["KO"] != 60.1 {
		t.Errorf("prediction prices = %v", got)
	}
	staked := follows.snapshot()
	if len(staked) != 3 || staked["AAPL"] != 182.5 {
		t.Errorf("follow prices = %v", staked)
	}
}

func TestQuoteRefresherIsolatesFailures(t *testing.T) {
	t.Parallel()

	quotes := &stubQuoteSource{
		prices: map[string]float64{"AAPL": 182.5, "KO": 60.1},
		errs:   map[string]error{"MSFT": errors.New("rate limited")},
	}
	preds := &stubPredictionPrices{symbols: []string{"AAPL", "MSFT", "KO"}}
	follows := &stubFollowReturns{}
	refresher := NewQuoteRefresher(testTracer, quotes, preds, follows, time.Minute, 2)

	refresher.refresh(context.Background())

	got := preds.snapshot()
	if len(got) != 2 {
		t.Fatalf("updated symbols = %v, want the two healthy ones", got)
	}
	if _, ok := got["MSFT"]; ok {
		t.Error("failed symbol still wrote a price")
	}
	if quotes.callCount() != 3 {
		t.Errorf("quote fetches = %d, want all 3 attempted", quotes.callCount())
	}
}

func TestQuoteRefresherSkipsEmptyWorkingSet(t *testing.T) {
	t.Parallel()

	quotes := &stubQuoteSource{}
	refresher := NewQuoteRefresher(testTracer, quotes, &stubPredictionPrices{}, &stubFollowReturns{}, time.Minute, 2)

	refresher.refresh(context.Background())

	if quotes.callCount() != 0 {
		t.Error("fetched quotes with no active predictions")
	}
}

func TestQuoteRefresherStart(t *testing.T) {
	t.Parallel()

	quotes := &stubQuoteSource{prices: map[string]float64{"AAPL": 182.5}}
	preds := &stubPredictionPrices{symbols: []string{"AAPL"}}
	refresher := NewQuoteRefresher(testTracer, quotes, preds, &stubFollowReturns{}, time.Minute, 2)

	ctx, cancel := context.WithCancel(context.Background())
	go refresher.Start(ctx)

	eventually(t, func() bool { return quotes.callCount() > 0 })
	cancel()
}

func TestNewQuoteRefresherDefaults(t *testing.T) {
	t.Parallel()

	refresher := NewQuoteRefresher(testTracer, &stubQuoteSource{}, &stubPredictionPrices{}, &stubFollowReturns{}, 0, 0)
	if refresher.pollInterval != time.Minute {
		t.Errorf("interval = %v, want 1m default", refresher.pollInterval)
	}
	if refresher.concurrency != 4 {
		t.Errorf("concurrency = %d, want 4 default", refresher.concurrency)
	}
}
