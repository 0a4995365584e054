package repository

import (
	"context"
	"errors"

	"stockduel/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type SymbolRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSymbolRepository(pool PgxPool, tracer trace.Tracer) *SymbolRepository {
	return &SymbolRepository{pool: pool, tracer: tracer}
}

func (r *SymbolRepository) Upsert(ctx context.Context, s domain.Symbol) error {
	_, span := r.tracer.Start(ctx, "symbol-repo.upsert")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
INSERT INTO symbols (symbol, name, exchange)
VALUES ($1, $2, $3)
ON CONFLICT (symbol) DO UPDATE SET
    name = EXCLUDED.name,
    exchange = EXCLUDED.exchange`,
		s.Symbol, s.Name, s.Exchange)
	return err
}

func (r *SymbolRepository) Get(ctx context.Context, symbol string) (*domain.Symbol, error) {
	_, span := r.tracer.Start(ctx, "symbol-repo.get")
	defer span.End()

	var s domain.Symbol
	err := r.pool.QueryRow(ctx, `
SELECT symbol, name, exchange, prediction_count, success_count, avg_return, updated_at
FROM symbols
WHERE symbol = $1`, symbol).Scan(
		&s.Symbol, &s.Name, &s.Exchange,
		&s.PredictionCount, &s.SuccessCount, &s.AvgReturn, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func (r *SymbolRepository) List(ctx context.Context) ([]domain.Symbol, error) {
	_, span := r.tracer.Start(ctx, "symbol-repo.list")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT symbol, name, exchange, prediction_count, success_count, avg_return, updated_at
FROM symbols
ORDER BY symbol ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []domain.Symbol
	for rows.Next() {
		var s domain.Symbol
		if err := rows.Scan(&s.Symbol, &s.Name, &s.Exchange,
			&s.PredictionCount, &s.SuccessCount, &s.AvgReturn, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = s.UpdatedAt.UTC()
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// RefreshStats recomputes a symbol's aggregates from its settled
// predictions. Runs as part of the settlement cascade.
func (r *SymbolRepository) RefreshStats(ctx context.Context, symbol string) error {
	_, span := r.tracer.Start(ctx, "symbol-repo.refresh-stats")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
UPDATE symbols
SET prediction_count = agg.total,
    success_count = agg.successes,
    avg_return = agg.avg_return,
    updated_at = NOW()
FROM (
    SELECT COUNT(*) AS total,
           COUNT(*) FILTER (WHERE status = 'success') AS successes,
           COALESCE(AVG(actual_return), 0) AS avg_return
    FROM predictions
    WHERE symbol = $1
      AND status IN ('success', 'failed')
) agg
WHERE symbols.symbol = $1`, symbol)
	return err
}
