package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockduel/internal/domain"
)

type stubPredictionStore struct {
	created    *domain.Prediction
	createErr  error
	prediction *domain.Prediction
	getErr     error
	list       []domain.Prediction
	listErr    error
	filter     domain.PredictionFilter
}

func (s *stubPredictionStore) Create(_ context.Context, p domain.Prediction) (*domain.Prediction, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	p.ID = 11
	s.created = &p
	return &p, nil
}

func (s *stubPredictionStore) GetByID(_ context.Context, _ int64) (*domain.Prediction, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.prediction, nil
}

func (s *stubPredictionStore) List(_ context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error) {
	s.filter = filter
	return s.list, s.listErr
}

type stubUserStore struct {
	user *domain.User
	err  error
}

func (s *stubUserStore) GetByID(_ context.Context, _ int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubSymbolStore struct {
	symbol *domain.Symbol
	err    error
}

func (s *stubSymbolStore) Get(_ context.Context, _ string) (*domain.Symbol, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.symbol, nil
}

type stubQuotes struct {
	quote *domain.Quote
	err   error
	calls int
}

func (s *stubQuotes) GetQuote(_ context.Context, _ string) (*domain.Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

var serviceNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestPredictionService(preds *stubPredictionStore, users *stubUserStore, symbols *stubSymbolStore, quotes *stubQuotes) *PredictionService {
	s := NewPredictionService(testTracer, preds, users, symbols, quotes)
	s.now = func() time.Time { return serviceNow }
	return s
}

func TestPredictionCreate(t *testing.T) {
	t.Parallel()

	preds := &stubPredictionStore{}
	users := &stubUserStore{user: &domain.User{ID: 7}}
	symbols := &stubSymbolStore{symbol: &domain.Symbol{Symbol: "AAPL"}}
	quotes := &stubQuotes{quote: &domain.Quote{Symbol: "AAPL", Price: 182.5}}
	svc := newTestPredictionService(preds, users, symbols, quotes)

	created, err := svc.Create(context.Background(), 7, "AAPL", 5, domain.Hold1Week)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.EntryPrice != 182.5 {
		t.Errorf("entry price = %v, want quoted 182.5", created.EntryPrice)
	}
	if created.CurrentPrice == nil || *created.CurrentPrice != 182.5 {
		t.Errorf("current price = %v, want seeded from entry", created.CurrentPrice)
	}
	if created.CurrentReturn == nil || *created.CurrentReturn != 0 {
		t.Errorf("current return = %v, want 0 at open", created.CurrentReturn)
	}
	if created.Status != domain.PredictionActive {
		t.Errorf("status = %s, want active", created.Status)
	}
	if !created.StartDate.Equal(serviceNow) {
		t.Errorf("start = %v, want %v", created.StartDate, serviceNow)
	}
	if want := serviceNow.AddDate(0, 0, 7); !created.EndDate.Equal(want) {
		t.Errorf("end = %v, want %v", created.EndDate, want)
	}
}

func TestPredictionCreateHoldPeriodSetsEndDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hold domain.HoldPeriod
		days int
	}{
		{domain.Hold1Week, 7},
		{domain.Hold2Weeks, 14},
		{domain.Hold1Month, 30},
		{domain.Hold3Months, 90},
	}
	for _, tt := range tests {
		t.Run(string(tt.hold), func(t *testing.T) {
			t.Parallel()

			preds := &stubPredictionStore{}
			svc := newTestPredictionService(preds,
				&stubUserStore{user: &domain.User{ID: 7}},
				&stubSymbolStore{symbol: &domain.Symbol{Symbol: "AAPL"}},
				&stubQuotes{quote: &domain.Quote{Symbol: "AAPL", Price: 100}})

			created, err := svc.Create(context.Background(), 7, "AAPL", -2, tt.hold)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if want := serviceNow.AddDate(0, 0, tt.days); !created.EndDate.Equal(want) {
				t.Errorf("end = %v, want %v", created.EndDate, want)
			}
		})
	}
}

func TestPredictionCreateInvalidHold(t *testing.T) {
	t.Parallel()

	quotes := &stubQuotes{quote: &domain.Quote{Price: 100}}
	svc := newTestPredictionService(&stubPredictionStore{}, &stubUserStore{user: &domain.User{ID: 7}},
		&stubSymbolStore{symbol: &domain.Symbol{Symbol: "AAPL"}}, quotes)

	if _, err := svc.Create(context.Background(), 7, "AAPL", 5, domain.HoldPeriod("6m")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if quotes.calls != 0 {
		t.Error("quote fetched for a rejected request")
	}
}

func TestPredictionCreateZeroChange(t *testing.T) {
	t.Parallel()

	svc := newTestPredictionService(&stubPredictionStore{}, &stubUserStore{user: &domain.User{ID: 7}},
		&stubSymbolStore{symbol: &domain.Symbol{Symbol: "AAPL"}}, &stubQuotes{quote: &domain.Quote{Price: 100}})

	if _, err := svc.Create(context.Background(), 7, "AAPL", 0, domain.Hold1Week); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestPredictionCreateUnknownSymbol(t *testing.T) {
	t.Parallel()

	preds := &stubPredictionStore{}
	svc := newTestPredictionService(preds, &stubUserStore{user: &domain.User{ID: 7}},
		&stubSymbolStore{err: domain.ErrNotFound}, &stubQuotes{quote: &domain.Quote{Price: 100}})

	if _, err := svc.Create(context.Background(), 7, "ZZZZ", 5, domain.Hold1Week); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if preds.created != nil {
		t.Error("prediction persisted for an unlisted symbol")
	}
}

func TestPredictionCreateQuoteUnavailable(t *testing.T) {
	t.Parallel()

	preds := &stubPredictionStore{}
	svc := newTestPredictionService(preds, &stubUserStore{user: &domain.User{ID: 7}},
		&stubSymbolStore{symbol: &domain.Symbol{Symbol: "AAPL"}}, &stubQuotes{err: domain.ErrMissingPrice})

	if _, err := svc.Create(context.Background(), 7, "AAPL", 5, domain.Hold1Week); !errors.Is(err, domain.ErrMissingPrice) {
		t.Fatalf("err = %v, want ErrMissingPrice", err)
	}
	if preds.created != nil {
		t.Error("prediction persisted without an entry price")
	}
}
