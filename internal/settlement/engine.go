// Package settlement owns the prediction lifecycle: deciding outcomes
// against observed prices, expiring overdue predictions, and cascading
// settled outcomes into user, follow, and symbol aggregates.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockduel/internal/domain"
	"stockduel/internal/scoring"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type PredictionStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Prediction, error)
	Settle(ctx context.Context, id int64, status domain.PredictionStatus, exitPrice, actualReturn float64, settledAt time.Time) error
	MarkExpired(ctx context.Context, id int64, settledAt time.Time) error
	Cancel(ctx context.Context, id int64, settledAt time.Time) (*domain.Prediction, error)
	UpdateCurrent(ctx context.Context, id int64, price, currentReturn float64) error
}

type UserStore interface {
	UpdateStats(ctx context.Context, userID int64, mutate func(domain.User) domain.User) (*domain.User, error)
}

type FollowStore interface {
	CompleteForPrediction(ctx context.Context, predictionID int64, exitPrice float64, completedAt time.Time) (int64, error)
	UpdateCurrentReturn(ctx context.Context, predictionID int64, price float64) (int64, error)
}

type SymbolStore interface {
	RefreshStats(ctx context.Context, symbol string) error
}

type Engine struct {
	tracer      trace.Tracer
	predictions PredictionStore
	users       UserStore
	follows     FollowStore
	symbols     SymbolStore
	now         func() time.Time
}

func NewEngine(tracer trace.Tracer, predictions PredictionStore, users UserStore, follows FollowStore, symbols SymbolStore) *Engine {
	return &Engine{
		tracer:      tracer,
		predictions: predictions,
		users:       users,
		follows:     follows,
		symbols:     symbols,
		now:         time.Now,
	}
}

// Settle finalizes one prediction. The outcome is decided purely by
// direction: a prediction calling up wins iff the realized return is
// positive, whatever the magnitude. exitPriceOverride, when non-nil,
// replaces the last observed current price.
//
// The user, follow, and symbol cascades run after the prediction write and
// before return; their failures are logged but do not roll the settlement
// back, because the settled prediction row is authoritative.
func (e *Engine) Settle(ctx context.Context, id int64, exitPriceOverride *float64) (*domain.Prediction, error) {
	ctx, span := e.tracer.Start(ctx, "settlement.settle")
	defer span.End()

	p, err := e.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("settle prediction %d: %w", id, err)
	}
	if p.Status != domain.PredictionActive {
		return nil, fmt.Errorf("settle prediction %d: %w", id, domain.ErrNotActive)
	}

	var finalPrice float64
	switch {
	case exitPriceOverride != nil:
		finalPrice = *exitPriceOverride
	case p.CurrentPrice != nil:
		finalPrice = *p.CurrentPrice
	default:
		return nil, fmt.Errorf("settle prediction %d: %w", id, domain.ErrMissingPrice)
	}

	actualReturn := scoring.ReturnPct(p.EntryPrice, finalPrice)
	predictedUp := p.PredictedChange > 0
	actualUp := actualReturn > 0

	status := domain.PredictionFailed
	if predictedUp == actualUp {
		status = domain.PredictionSuccess
	}
	success := status == domain.PredictionSuccess

	settledAt := e.now().UTC()
	if err := e.predictions.Settle(ctx, id, status, finalPrice, actualReturn, settledAt); err != nil {
		return nil, fmt.Errorf("settle prediction %d: %w", id, err)
	}

	log.Info().
		Int64("prediction_id", id).
		Int64("user_id", p.UserID).
		Str("symbol", p.Symbol).
		Str("status", string(status)).
		Float64("actual_return", actualReturn).
		Float64("accuracy", scoring.AccuracyScore(p.PredictedChange, actualReturn)).
		Msg("prediction settled")

	e.cascade(ctx, p, success, finalPrice, settledAt)

	p.Status = status
	p.ExitPrice = &finalPrice
	p.ActualReturn = &actualReturn
	p.SettledAt = &settledAt
	return p, nil
}

// cascade pushes a settled outcome into the aggregates that hang off it.
// Each step is independent; a failed step is logged and the rest still run.
func (e *Engine) cascade(ctx context.Context, p *domain.Prediction, success bool, exitPrice float64, settledAt time.Time) {
	if _, err := e.users.UpdateStats(ctx, p.UserID, func(u domain.User) domain.User {
		return scoring.Apply(u, success)
	}); err != nil {
		log.Error().Err(err).Int64("prediction_id", p.ID).Int64("user_id", p.UserID).
			Msg("user stats cascade failed")
	}

	if _, err := e.follows.CompleteForPrediction(ctx, p.ID, exitPrice, settledAt); err != nil {
		log.Error().Err(err).Int64("prediction_id", p.ID).
			Msg("follow completion cascade failed")
	}

	if err := e.symbols.RefreshStats(ctx, p.Symbol); err != nil {
		log.Error().Err(err).Str("symbol", p.Symbol).
			Msg("symbol stats refresh failed")
	}
}

// CheckExpired settles an active prediction whose end date has passed,
// using the last observed price. A prediction that never saw any price is
// forced into the expired state without price fields.
func (e *Engine) CheckExpired(ctx context.Context, id int64) (*domain.Prediction, error) {
	ctx, span := e.tracer.Start(ctx, "settlement.check-expired")
	defer span.End()

	p, err := e.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check expired prediction %d: %w", id, err)
	}
	now := e.now().UTC()
	if p.Status != domain.PredictionActive || !now.After(p.EndDate) {
		return p, nil
	}

	settled, err := e.Settle(ctx, id, nil)
	if err == nil {
		return settled, nil
	}
	if !errors.Is(err, domain.ErrMissingPrice) {
		return nil, err
	}

	if err := e.predictions.MarkExpired(ctx, id, now); err != nil {
		return nil, fmt.Errorf("expire prediction %d: %w", id, err)
	}
	log.Warn().Int64("prediction_id", id).Str("symbol", p.Symbol).
		Msg("prediction expired without an observed price")
	p.Status = domain.PredictionExpired
	p.SettledAt = &now
	return p, nil
}

// UpdateCurrentReturn refreshes one active prediction's live price and
// return. No status change and no cascade.
func (e *Engine) UpdateCurrentReturn(ctx context.Context, id int64, currentPrice float64) (*domain.Prediction, error) {
	ctx, span := e.tracer.Start(ctx, "settlement.update-current-return")
	defer span.End()

	p, err := e.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update current return %d: %w", id, err)
	}
	if p.Status != domain.PredictionActive {
		return nil, fmt.Errorf("update current return %d: %w", id, domain.ErrNotActive)
	}

	currentReturn := scoring.ReturnPct(p.EntryPrice, currentPrice)
	if err := e.predictions.UpdateCurrent(ctx, id, currentPrice, currentReturn); err != nil {
		return nil, fmt.Errorf("update current return %d: %w", id, err)
	}
	if _, err := e.follows.UpdateCurrentReturn(ctx, id, currentPrice); err != nil {
		log.Warn().Err(err).Int64("prediction_id", id).
			Msg("follow return refresh failed")
	}
	p.CurrentPrice = &currentPrice
	p.CurrentReturn = &currentReturn
	return p, nil
}

// Cancel withdraws an active prediction, freezing it at the last observed
// price. Cancelled predictions never enter the stats cascade.
func (e *Engine) Cancel(ctx context.Context, id int64) (*domain.Prediction, error) {
	ctx, span := e.tracer.Start(ctx, "settlement.cancel")
	defer span.End()

	p, err := e.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel prediction %d: %w", id, err)
	}
	if p.Status != domain.PredictionActive {
		return nil, fmt.Errorf("cancel prediction %d: %w", id, domain.ErrNotActive)
	}

	cancelled, err := e.predictions.Cancel(ctx, id, e.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("cancel prediction %d: %w", id, err)
	}
	return cancelled, nil
}
