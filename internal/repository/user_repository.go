package repository

import (
	"context"
	"errors"

	"stockduel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const userColumns = `id, nickname, is_active, total_predictions, success_count, failed_count,
       current_streak, max_streak, total_score, spendable_score, level, created_at`

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type UserRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewUserRepository(pool PgxPool, tracer trace.Tracer) *UserRepository {
	return &UserRepository{pool: pool, tracer: tracer}
}

func (r *UserRepository) Create(ctx context.Context, nickname string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.create")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (nickname) VALUES ($1)
RETURNING `+userColumns, nickname)
	u, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, domain.ErrAlreadyExists
	}
	return u, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.get")
	defer span.End()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.get-by-nickname")
	defer span.End()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

// ListActive returns every user eligible for leaderboard membership.
func (r *UserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.list-active")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE is_active ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateStats applies mutate to the user's aggregates under a row lock, so
// concurrent settlements crediting the same user serialize instead of
// overwriting each other.
func (r *UserRepository) UpdateStats(ctx context.Context, userID int64, mutate func(domain.User) domain.User) (*domain.User, error) {
	_, span := r.tracer.Start(ctx, "user-repo.update-stats")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	current, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	updated := mutate(*current)
	if _, err := tx.Exec(ctx, `
UPDATE users
SET total_predictions = $2,
    success_count = $3,
    failed_count = $4,
    current_streak = $5,
    max_streak = $6,
    total_score = $7,
    spendable_score = $8,
    level = $9
WHERE id = $1`,
		userID,
		updated.TotalPredictions,
		updated.SuccessCount,
		updated.FailedCount,
		updated.CurrentStreak,
		updated.MaxStreak,
		updated.TotalScore,
		updated.SpendableScore,
		updated.Level,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &updated, nil
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	if err := s.Scan(
		&u.ID,
		&u.Nickname,
		&u.IsActive,
		&u.TotalPredictions,
		&u.SuccessCount,
		&u.FailedCount,
		&u.CurrentStreak,
		&u.MaxStreak,
		&u.TotalScore,
		&u.SpendableScore,
		&u.Level,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
