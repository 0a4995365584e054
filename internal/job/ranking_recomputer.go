package job

import (
	"context"
	"errors"
	"time"

	"stockduel/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type Recomputer interface {
	CalculateRankings(ctx context.Context, rankType domain.RankType, periodID string) ([]domain.RankingSnapshot, error)
}

// RankingRecomputer rebuilds the current snapshot of every rank type on a
// timer. A claim conflict means another instance is already rebuilding
// that board, so the type is skipped for this cycle.
type RankingRecomputer struct {
	tracer       trace.Tracer
	rankings     Recomputer
	pollInterval time.Duration
}

func NewRankingRecomputer(tracer trace.Tracer, rankings Recomputer, pollInterval time.Duration) *RankingRecomputer {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Minute
	}
	return &RankingRecomputer{tracer: tracer, rankings: rankings, pollInterval: pollInterval}
}

// Start runs the recompute loop. Blocks until ctx is cancelled.
func (j *RankingRecomputer) Start(ctx context.Context) {
	log.Info().Dur("interval", j.pollInterval).Msg("ranking recomputer starting")

	j.recompute(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("ranking recomputer stopped")
			return
		case <-ticker.C:
			j.recompute(ctx)
		}
	}
}

func (j *RankingRecomputer) recompute(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "ranking-recomputer.recompute")
	defer span.End()

	for _, rankType := range []domain.RankType{domain.RankWeekly, domain.RankMonthly, domain.RankTotal} {
		_, err := j.rankings.CalculateRankings(ctx, rankType, "")
		switch {
		case errors.Is(err, domain.ErrConcurrencyConflict):
			log.Debug().Str("rank_type", string(rankType)).Msg("ranking rebuild already in progress")
		case err != nil:
			log.Error().Err(err).Str("rank_type", string(rankType)).Msg("ranking rebuild failed")
		}
	}
}
