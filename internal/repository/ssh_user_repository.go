package repository

import (
	"context"
	"errors"

	"stockduel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type SSHUserRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSSHUserRepository(pool PgxPool, tracer trace.Tracer) *SSHUserRepository {
	return &SSHUserRepository{pool: pool, tracer: tracer}
}

// GetByFingerprint resolves an SSH public-key fingerprint to the linked
// contest user.
func (r *SSHUserRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.SSHUser, error) {
	_, span := r.tracer.Start(ctx, "ssh-user-repo.get-by-fingerprint")
	defer span.End()

	var u domain.SSHUser
	err := r.pool.QueryRow(ctx, `
SELECT s.id, s.user_id, u.nickname, s.fingerprint, s.created_at
FROM ssh_users s
JOIN users u ON u.id = s.user_id
WHERE s.fingerprint = $1`, fingerprint).Scan(
		&u.ID, &u.UserID, &u.Nickname, &u.Fingerprint, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// Register links a fingerprint to a user.
func (r *SSHUserRepository) Register(ctx context.Context, userID int64, fingerprint string) error {
	_, span := r.tracer.Start(ctx, "ssh-user-repo.register")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO ssh_users (user_id, fingerprint) VALUES ($1, $2)`,
		userID, fingerprint)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrAlreadyExists
		case foreignKeyViolation:
			return domain.ErrNotFound
		}
	}
	return err
}
