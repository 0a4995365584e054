package job

import (
	"context"
	"time"

	"stockduel/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type DuePredictions interface {
	ListActiveDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Prediction, error)
}

type ExpirySettler interface {
	CheckExpired(ctx context.Context, id int64) (*domain.Prediction, error)
}

// ExpirySweeper settles predictions whose hold period ran out. Each sweep
// takes a bounded batch of overdue actives and pushes them through the
// settlement engine one by one.
type ExpirySweeper struct {
	tracer       trace.Tracer
	predictions  DuePredictions
	settler      ExpirySettler
	pollInterval time.Duration
	batchSize    int
}

func NewExpirySweeper(tracer trace.Tracer, predictions DuePredictions, settler ExpirySettler, pollInterval time.Duration, batchSize int) *ExpirySweeper {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExpirySweeper{
		tracer:       tracer,
		predictions:  predictions,
		settler:      settler,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Start runs the sweep loop. Blocks until ctx is cancelled.
func (j *ExpirySweeper) Start(ctx context.Context) {
	log.Info().Dur("interval", j.pollInterval).Msg("expiry sweeper starting")

	j.sweep(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ExpirySweeper) sweep(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "expiry-sweeper.sweep")
	defer span.End()

	due, err := j.predictions.ListActiveDue(ctx, time.Now().UTC(), j.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("expiry sweep skipped, due predictions unavailable")
		return
	}
	if len(due) == 0 {
		return
	}

	settled := 0
	for _, p := range due {
		if _, err := j.settler.CheckExpired(ctx, p.ID); err != nil {
			// Lost races and still-missing prices resolve themselves on
			// a later sweep.
			log.Warn().Err(err).Int64("prediction_id", p.ID).Str("symbol", p.Symbol).
				Msg("expiry settlement failed")
			continue
		}
		settled++
	}
	log.Info().Int("due", len(due)).Int("settled", settled).Msg("expiry sweep finished")
}
