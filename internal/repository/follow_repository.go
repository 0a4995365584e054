package repository

import (
	"context"
	"errors"
	"time"

	"stockduel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

const followColumns = `id, user_id, target_type, target_id, amount, price_at_follow,
       current_return, actual_return, status, created_at, completed_at`

type FollowRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewFollowRepository(pool PgxPool, tracer trace.Tracer) *FollowRepository {
	return &FollowRepository{pool: pool, tracer: tracer}
}

func (r *FollowRepository) Create(ctx context.Context, f domain.Follow) (*domain.Follow, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.create")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
INSERT INTO follows (user_id, target_type, target_id, amount, price_at_follow, status)
VALUES ($1, $2, $3, $4, $5, 'active')
RETURNING `+followColumns,
		f.UserID, string(f.TargetType), f.TargetID, f.Amount, f.PriceAtFollow)
	out, err := scanFollow(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, domain.ErrAlreadyExists
	}
	return out, err
}

func (r *FollowRepository) GetByID(ctx context.Context, id int64) (*domain.Follow, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.get")
	defer span.End()

	row := r.pool.QueryRow(ctx, `SELECT `+followColumns+` FROM follows WHERE id = $1`, id)
	f, err := scanFollow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (r *FollowRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Follow, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.list-by-user")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+followColumns+`
FROM follows
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []domain.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return nil, err
		}
		follows = append(follows, *f)
	}
	return follows, rows.Err()
}

// Cancel withdraws an active follow. ErrNotActive covers both a missing id
// and a follow that already completed.
func (r *FollowRepository) Cancel(ctx context.Context, id int64) (*domain.Follow, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.cancel")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
UPDATE follows
SET status = 'cancelled'
WHERE id = $1
  AND status = 'active'
RETURNING `+followColumns, id)
	f, err := scanFollow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotActive
	}
	return f, err
}

// UpdateCurrentReturn refreshes the paper return of active follows staked on
// a prediction after a price move.
func (r *FollowRepository) UpdateCurrentReturn(ctx context.Context, predictionID int64, price float64) (int64, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.update-current-return")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE follows
SET current_return = ($2 - price_at_follow) / price_at_follow * 100
WHERE target_type = 'recommend'
  AND target_id = $1
  AND status = 'active'
  AND price_at_follow > 0`, predictionID, price)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RefreshBySymbol refreshes the paper return of every active follow riding
// an active prediction on one symbol. The quote refresh pass calls this
// right after moving the predictions themselves.
func (r *FollowRepository) RefreshBySymbol(ctx context.Context, symbol string, price float64) (int64, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.refresh-by-symbol")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE follows f
SET current_return = ($2 - f.price_at_follow) / f.price_at_follow * 100
FROM predictions p
WHERE f.target_type = 'recommend'
  AND f.target_id = p.id
  AND f.status = 'active'
  AND f.price_at_follow > 0
  AND p.symbol = $1
  AND p.status = 'active'`, symbol, price)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CompleteForPrediction settles every active follow staked on a prediction
// at its exit price. Part of the settlement cascade.
func (r *FollowRepository) CompleteForPrediction(ctx context.Context, predictionID int64, exitPrice float64, completedAt time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "follow-repo.complete-for-prediction")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE follows
SET status = 'completed',
    actual_return = ($2 - price_at_follow) / price_at_follow * 100,
    completed_at = $3
WHERE target_type = 'recommend'
  AND target_id = $1
  AND status = 'active'
  AND price_at_follow > 0`, predictionID, exitPrice, completedAt.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanFollow(s scanner) (*domain.Follow, error) {
	var f domain.Follow
	var targetType, status string
	var currentReturn, actualReturn pgtype.Float8
	var completedAt pgtype.Timestamptz

	if err := s.Scan(
		&f.ID,
		&f.UserID,
		&targetType,
		&f.TargetID,
		&f.Amount,
		&f.PriceAtFollow,
		&currentReturn,
		&actualReturn,
		&status,
		&f.CreatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}
	f.TargetType = domain.FollowType(targetType)
	f.Status = domain.FollowStatus(status)
	f.CreatedAt = f.CreatedAt.UTC()

	if currentReturn.Valid {
		v := currentReturn.Float64
		f.CurrentReturn = &v
	}
	if actualReturn.Valid {
		v := actualReturn.Float64
		f.ActualReturn = &v
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		f.CompletedAt = &t
	}
	return &f, nil
}
