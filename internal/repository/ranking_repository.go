package repository

import (
	"context"
	"errors"
	"time"

	"stockduel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

const snapshotColumns = `s.id, s.user_id, u.nickname, s.rank_type, s.period, s.rank,
       s.previous_rank, s.score, s.period_score, s.total_predictions,
       s.success_predictions, s.win_rate, s.avg_return, s.max_return,
       s.current_streak, s.max_streak, s.period_start, s.period_end,
       s.badge, s.created_at`

type RankingRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRankingRepository(pool PgxPool, tracer trace.Tracer) *RankingRepository {
	return &RankingRepository{pool: pool, tracer: tracer}
}

// ReplaceSnapshots swaps the whole snapshot set for (rankType, period) in
// one transaction, so readers see either the old complete set or the new
// one, never a partial mix.
func (r *RankingRepository) ReplaceSnapshots(ctx context.Context, rankType domain.RankType, periodID string, snapshots []domain.RankingSnapshot) error {
	_, span := r.tracer.Start(ctx, "ranking-repo.replace-snapshots")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM ranking_snapshots WHERE rank_type = $1 AND period = $2`,
		string(rankType), periodID); err != nil {
		return err
	}

	if len(snapshots) > 0 {
		batch := &pgx.Batch{}
		for _, s := range snapshots {
			batch.Queue(`
INSERT INTO ranking_snapshots (
    user_id, rank_type, period, rank, previous_rank,
    score, period_score, total_predictions, success_predictions,
    win_rate, avg_return, max_return, current_streak, max_streak,
    period_start, period_end, badge
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
				s.UserID,
				string(rankType),
				periodID,
				s.Rank,
				s.PreviousRank,
				s.Score,
				s.PeriodScore,
				s.TotalPredictions,
				s.SuccessPredictions,
				s.WinRate,
				s.AvgReturn,
				s.MaxReturn,
				s.CurrentStreak,
				s.MaxStreak,
				s.PeriodStart,
				s.PeriodEnd,
				nullableText(s.Badge),
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range snapshots {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return err
			}
		}
		if err := br.Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// List returns one leaderboard page ordered by rank plus the full row count.
func (r *RankingRepository) List(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) ([]domain.RankingSnapshot, int, error) {
	_, span := r.tracer.Start(ctx, "ranking-repo.list")
	defer span.End()

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ranking_snapshots WHERE rank_type = $1 AND period = $2`,
		string(rankType), periodID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+snapshotColumns+`
FROM ranking_snapshots s
JOIN users u ON u.id = s.user_id
WHERE s.rank_type = $1 AND s.period = $2
ORDER BY s.rank ASC
LIMIT $3 OFFSET $4`, string(rankType), periodID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var snapshots []domain.RankingSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, 0, err
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, total, rows.Err()
}

// GetUser returns one user's snapshot row, or nil when the user has no row
// in that period.
func (r *RankingRepository) GetUser(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error) {
	_, span := r.tracer.Start(ctx, "ranking-repo.get-user")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
SELECT `+snapshotColumns+`
FROM ranking_snapshots s
JOIN users u ON u.id = s.user_id
WHERE s.user_id = $1 AND s.rank_type = $2 AND s.period = $3`,
		userID, string(rankType), periodID)
	s, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// PreviousRanks returns user id to rank for a stored period.
func (r *RankingRepository) PreviousRanks(ctx context.Context, rankType domain.RankType, periodID string) (map[int64]int, error) {
	_, span := r.tracer.Start(ctx, "ranking-repo.previous-ranks")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, rank FROM ranking_snapshots WHERE rank_type = $1 AND period = $2`,
		string(rankType), periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var rank int
		if err := rows.Scan(&userID, &rank); err != nil {
			return nil, err
		}
		ranks[userID] = rank
	}
	return ranks, rows.Err()
}

// Claim takes the recomputation claim for (rankType, period). It returns
// false when another holder's claim is still live. Expired claims are
// stolen, so a crashed run never wedges the period.
func (r *RankingRepository) Claim(ctx context.Context, rankType domain.RankType, periodID string, now time.Time, ttl time.Duration) (bool, error) {
	_, span := r.tracer.Start(ctx, "ranking-repo.claim")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
INSERT INTO ranking_claims (rank_type, period, claimed_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (rank_type, period) DO UPDATE
SET claimed_at = EXCLUDED.claimed_at,
    expires_at = EXCLUDED.expires_at
WHERE ranking_claims.expires_at <= EXCLUDED.claimed_at`,
		string(rankType), periodID, now.UTC(), now.Add(ttl).UTC())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Release drops the claim after a finished or failed recomputation.
func (r *RankingRepository) Release(ctx context.Context, rankType domain.RankType, periodID string) error {
	_, span := r.tracer.Start(ctx, "ranking-repo.release")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`DELETE FROM ranking_claims WHERE rank_type = $1 AND period = $2`,
		string(rankType), periodID)
	return err
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func scanSnapshot(s scanner) (*domain.RankingSnapshot, error) {
	var out domain.RankingSnapshot
	var rankType string
	var previousRank pgtype.Int4
	var periodStart, periodEnd pgtype.Timestamptz
	var badge pgtype.Text

	if err := s.Scan(
		&out.ID,
		&out.UserID,
		&out.Nickname,
		&rankType,
		&out.Period,
		&out.Rank,
		&previousRank,
		&out.Score,
		&out.PeriodScore,
		&out.TotalPredictions,
		&out.SuccessPredictions,
		&out.WinRate,
		&out.AvgReturn,
		&out.MaxReturn,
		&out.CurrentStreak,
		&out.MaxStreak,
		&periodStart,
		&periodEnd,
		&badge,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	out.RankType = domain.RankType(rankType)
	out.CreatedAt = out.CreatedAt.UTC()

	if previousRank.Valid {
		v := int(previousRank.Int32)
		out.PreviousRank = &v
	}
	if periodStart.Valid {
		t := periodStart.Time.UTC()
		out.PeriodStart = &t
	}
	if periodEnd.Valid {
		t := periodEnd.Time.UTC()
		out.PeriodEnd = &t
	}
	if badge.Valid {
		out.Badge = badge.String
	}
	return &out, nil
}
