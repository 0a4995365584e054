package service

import (
	"context"
	"fmt"
	"time"

	"stockduel/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type PredictionStore interface {
	Create(ctx context.Context, p domain.Prediction) (*domain.Prediction, error)
	GetByID(ctx context.Context, id int64) (*domain.Prediction, error)
	List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type SymbolStore interface {
	Get(ctx context.Context, symbol string) (*domain.Symbol, error)
}

type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// PredictionService creates and lists predictions. Settlement and expiry
// belong to the settlement engine; this service only opens positions.
type PredictionService struct {
	tracer      trace.Tracer
	predictions PredictionStore
	users       UserStore
	symbols     SymbolStore
	quotes      QuoteSource
	now         func() time.Time
}

func NewPredictionService(tracer trace.Tracer, predictions PredictionStore, users UserStore, symbols SymbolStore, quotes QuoteSource) *PredictionService {
	return &PredictionService{
		tracer:      tracer,
		predictions: predictions,
		users:       users,
		symbols:     symbols,
		quotes:      quotes,
		now:         time.Now,
	}
}

// Create opens a prediction at the symbol's current quote. The entry price
// is captured here and never revised; the hold period fixes the end date.
func (s *PredictionService) Create(ctx context.Context, userID int64, symbol string, predictedChange float64, hold domain.HoldPeriod) (*domain.Prediction, error) {
	ctx, span := s.tracer.Start(ctx, "prediction-service.create")
	defer span.End()

	if !hold.IsValid() {
		return nil, fmt.Errorf("create prediction: hold period %q: %w", hold, domain.ErrInvalidInput)
	}
	if predictedChange == 0 {
		return nil, fmt.Errorf("create prediction: predicted change must pick a direction: %w", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("create prediction: user %d: %w", userID, err)
	}
	if _, err := s.symbols.Get(ctx, symbol); err != nil {
		return nil, fmt.Errorf("create prediction: symbol %s: %w", symbol, err)
	}

	quote, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("create prediction: quote %s: %w", symbol, err)
	}

	now := s.now().UTC()
	entry := quote.Price
	zero := 0.0
	created, err := s.predictions.Create(ctx, domain.Prediction{
		UserID:          userID,
		Symbol:          symbol,
		PredictedChange: predictedChange,
		HoldPeriod:      hold,
		EntryPrice:      entry,
		CurrentPrice:    &entry,
		CurrentReturn:   &zero,
		Status:          domain.PredictionActive,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, hold.Days()),
	})
	if err != nil {
		return nil, fmt.Errorf("create prediction: %w", err)
	}

	log.Info().
		Int64("prediction_id", created.ID).
		Int64("user_id", userID).
		Str("symbol", symbol).
		Float64("entry_price", entry).
		Str("hold_period", string(hold)).
		Msg("prediction opened")
	return created, nil
}

func (s *PredictionService) Get(ctx context.Context, id int64) (*domain.Prediction, error) {
	ctx, span := s.tracer.Start(ctx, "prediction-service.get")
	defer span.End()

	return s.predictions.GetByID(ctx, id)
}

func (s *PredictionService) List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error) {
	ctx, span := s.tracer.Start(ctx, "prediction-service.list")
	defer span.End()

	return s.predictions.List(ctx, filter)
}
