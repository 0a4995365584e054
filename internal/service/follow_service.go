package service

import (
	"context"
	"fmt"

	"stockduel/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type FollowStore interface {
	Create(ctx context.Context, f domain.Follow) (*domain.Follow, error)
	GetByID(ctx context.Context, id int64) (*domain.Follow, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Follow, error)
	Cancel(ctx context.Context, id int64) (*domain.Follow, error)
}

// FollowService opens and closes virtual stakes on predictions or users.
// Completion itself is driven by the settlement cascade, not by this
// service.
type FollowService struct {
	tracer      trace.Tracer
	follows     FollowStore
	predictions PredictionStore
	users       UserStore
}

func NewFollowService(tracer trace.Tracer, follows FollowStore, predictions PredictionStore, users UserStore) *FollowService {
	return &FollowService{
		tracer:      tracer,
		follows:     follows,
		predictions: predictions,
		users:       users,
	}
}

// Follow stakes amount on a target. Recommend follows ride one active
// prediction and capture its price at follow time; user follows track a
// person and carry no instrument price. Following yourself or the same
// target twice is rejected.
func (s *FollowService) Follow(ctx context.Context, userID int64, targetType domain.FollowType, targetID int64, amount float64) (*domain.Follow, error) {
	ctx, span := s.tracer.Start(ctx, "follow-service.follow")
	defer span.End()

	if !targetType.IsValid() {
		return nil, fmt.Errorf("follow: target type %q: %w", targetType, domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("follow: amount must be positive: %w", domain.ErrInvalidInput)
	}

	var priceAtFollow float64
	switch targetType {
	case domain.FollowRecommend:
		p, err := s.predictions.GetByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("follow: prediction %d: %w", targetID, err)
		}
		if p.UserID == userID {
			return nil, fmt.Errorf("follow: own prediction: %w", domain.ErrInvalidInput)
		}
		if p.Status != domain.PredictionActive {
			return nil, fmt.Errorf("follow: prediction %d: %w", targetID, domain.ErrNotActive)
		}
		priceAtFollow = p.EntryPrice
		if p.CurrentPrice != nil {
			priceAtFollow = *p.CurrentPrice
		}
	case domain.FollowUser:
		if targetID == userID {
			return nil, fmt.Errorf("follow: own account: %w", domain.ErrInvalidInput)
		}
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return nil, fmt.Errorf("follow: user %d: %w", targetID, err)
		}
	}

	created, err := s.follows.Create(ctx, domain.Follow{
		UserID:        userID,
		TargetType:    targetType,
		TargetID:      targetID,
		Amount:        amount,
		PriceAtFollow: priceAtFollow,
		Status:        domain.FollowActive,
	})
	if err != nil {
		return nil, fmt.Errorf("follow: %w", err)
	}

	log.Info().
		Int64("follow_id", created.ID).
		Int64("user_id", userID).
		Str("target_type", string(targetType)).
		Int64("target_id", targetID).
		Msg("follow opened")
	return created, nil
}

// Unfollow cancels an active follow owned by userID. Foreign follows read
// as absent rather than forbidden.
func (s *FollowService) Unfollow(ctx context.Context, id, userID int64) (*domain.Follow, error) {
	ctx, span := s.tracer.Start(ctx, "follow-service.unfollow")
	defer span.End()

	f, err := s.follows.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unfollow %d: %w", id, err)
	}
	if f.UserID != userID {
		return nil, fmt.Errorf("unfollow %d: %w", id, domain.ErrNotFound)
	}
	cancelled, err := s.follows.Cancel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unfollow %d: %w", id, err)
	}
	return cancelled, nil
}

func (s *FollowService) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Follow, error) {
	ctx, span := s.tracer.Start(ctx, "follow-service.list-by-user")
	defer span.End()

	return s.follows.ListByUser(ctx, userID, limit)
}
