package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockduel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

// PgxPool is the subset of pgxpool.Pool the repositories need.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

const predictionColumns = `id, user_id, symbol, predicted_change, hold_period,
       entry_price, current_price, current_return, exit_price, actual_return,
       status, start_date, end_date, settled_at, created_at`

type PredictionRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewPredictionRepository(pool PgxPool, tracer trace.Tracer) *PredictionRepository {
	return &PredictionRepository{pool: pool, tracer: tracer}
}

func (r *PredictionRepository) Create(ctx context.Context, p domain.Prediction) (*domain.Prediction, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.create")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
INSERT INTO predictions (
    user_id, symbol, predicted_change, hold_period,
    entry_price, current_price, current_return,
    status, start_date, end_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+predictionColumns,
		p.UserID,
		p.Symbol,
		p.PredictedChange,
		string(p.HoldPeriod),
		p.EntryPrice,
		p.CurrentPrice,
		p.CurrentReturn,
		string(domain.PredictionActive),
		p.StartDate.UTC(),
		p.EndDate.UTC(),
	)
	return scanPrediction(row)
}

func (r *PredictionRepository) GetByID(ctx context.Context, id int64) (*domain.Prediction, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.get")
	defer span.End()

	row := r.pool.QueryRow(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE id = $1`, id)
	p, err := scanPrediction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (r *PredictionRepository) List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.list")
	defer span.End()

	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE 1=1`
	args := []any{}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Symbol != "" {
		args = append(args, filter.Symbol)
		query += fmt.Sprintf(" AND symbol = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// ListActiveSymbols returns the distinct symbols that still have active
// predictions, the working set for a quote refresh pass.
func (r *PredictionRepository) ListActiveSymbols(ctx context.Context) ([]string, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.list-active-symbols")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT symbol FROM predictions WHERE status = 'active' ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// ListActiveDue returns active predictions whose end date has passed.
func (r *PredictionRepository) ListActiveDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Prediction, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.list-active-due")
	defer span.End()

	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+predictionColumns+`
FROM predictions
WHERE status = 'active'
  AND end_date <= $1
ORDER BY end_date ASC
LIMIT $2`, cutoff.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// ListCreatedBetween returns every prediction created inside [start, end),
// any status, ordered by user then creation time. Nil bounds drop the
// corresponding comparison, so (nil, nil) scans the full history.
func (r *PredictionRepository) ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]domain.Prediction, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.list-created-between")
	defer span.End()

	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE 1=1`
	args := []any{}
	if start != nil {
		args = append(args, start.UTC())
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if end != nil {
		args = append(args, end.UTC())
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	query += " ORDER BY user_id ASC, created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// UpdateCurrentPrice refreshes the live price and return of every active
// prediction on a symbol and returns how many rows moved.
func (r *PredictionRepository) UpdateCurrentPrice(ctx context.Context, symbol string, price float64) (int64, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.update-current-price")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE predictions
SET current_price = $2,
    current_return = ($2 - entry_price) / entry_price * 100
WHERE symbol = $1
  AND status = 'active'`, symbol, price)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateCurrent refreshes one active prediction's live price and return.
func (r *PredictionRepository) UpdateCurrent(ctx context.Context, id int64, price, currentReturn float64) error {
	_, span := r.tracer.Start(ctx, "prediction-repo.update-current")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE predictions
SET current_price = $2,
    current_return = $3
WHERE id = $1
  AND status = 'active'`, id, price, currentReturn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// Settle writes the terminal outcome of one prediction. The status guard
// makes concurrent settlement of the same row a conflict instead of a
// double write.
func (r *PredictionRepository) Settle(ctx context.Context, id int64, status domain.PredictionStatus, exitPrice, actualReturn float64, settledAt time.Time) error {
	_, span := r.tracer.Start(ctx, "prediction-repo.settle")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE predictions
SET status = $2,
    exit_price = $3,
    actual_return = $4,
    settled_at = $5
WHERE id = $1
  AND status = 'active'`, id, string(status), exitPrice, actualReturn, settledAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// MarkExpired forces an active prediction that never saw a price into the
// expired state without price fields.
func (r *PredictionRepository) MarkExpired(ctx context.Context, id int64, settledAt time.Time) error {
	_, span := r.tracer.Start(ctx, "prediction-repo.mark-expired")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
UPDATE predictions
SET status = 'expired',
    settled_at = $2
WHERE id = $1
  AND status = 'active'`, id, settledAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// Cancel freezes an active prediction at its last observed price.
func (r *PredictionRepository) Cancel(ctx context.Context, id int64, settledAt time.Time) (*domain.Prediction, error) {
	_, span := r.tracer.Start(ctx, "prediction-repo.cancel")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
UPDATE predictions
SET status = 'cancelled',
    exit_price = current_price,
    actual_return = current_return,
    settled_at = $2
WHERE id = $1
  AND status = 'active'
RETURNING `+predictionColumns, id, settledAt.UTC())
	p, err := scanPrediction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotActive
	}
	return p, err
}

func scanPredictions(rows pgx.Rows) ([]domain.Prediction, error) {
	var out []domain.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(s scanner) (*domain.Prediction, error) {
	var out domain.Prediction
	var holdPeriod, status string
	var currentPrice, currentReturn, exitPrice, actualReturn pgtype.Float8
	var settledAt pgtype.Timestamptz

	if err := s.Scan(
		&out.ID,
		&out.UserID,
		&out.Symbol,
		&out.PredictedChange,
		&holdPeriod,
		&out.EntryPrice,
		&currentPrice,
		&currentReturn,
		&exitPrice,
		&actualReturn,
		&status,
		&out.StartDate,
		&out.EndDate,
		&settledAt,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	out.HoldPeriod = domain.HoldPeriod(holdPeriod)
	out.Status = domain.PredictionStatus(status)
	out.StartDate = out.StartDate.UTC()
	out.EndDate = out.EndDate.UTC()
	out.CreatedAt = out.CreatedAt.UTC()

	if currentPrice.Valid {
		v := currentPrice.Float64
		out.CurrentPrice = &v
	}
	if currentReturn.Valid {
		v := currentReturn.Float64
		out.CurrentReturn = &v
	}
	if exitPrice.Valid {
		v := exitPrice.Float64
		out.ExitPrice = &v
	}
	if actualReturn.Valid {
		v := actualReturn.Float64
		out.ActualReturn = &v
	}
	if settledAt.Valid {
		t := settledAt.Time.UTC()
		out.SettledAt = &t
	}
	return &out, nil
}
