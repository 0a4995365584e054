// Package job runs the background loops: quote refresh, expiry sweeping,
// and ranking recomputation. Every job blocks in Start until its context
// is cancelled and isolates per-entity failures inside a pass.
package job

import (
	"context"
	"time"

	"stockduel/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type QuoteSource interface {
	RefreshQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type PredictionPrices interface {
	ListActiveSymbols(ctx context.Context) ([]string, error)
	UpdateCurrentPrice(ctx context.Context, symbol string, price float64) (int64, error)
}

type FollowReturns interface {
	RefreshBySymbol(ctx context.Context, symbol string, price float64) (int64, error)
}

// QuoteRefresher periodically pulls fresh quotes for every symbol with an
// active prediction and pushes the prices into predictions and follows.
// Symbols are independent, so a pass fans out with bounded concurrency and
// one failing symbol never aborts the rest.
type QuoteRefresher struct {
	tracer       trace.Tracer
	quotes       QuoteSource
	predictions  PredictionPrices
	follows      FollowReturns
	pollInterval time.Duration
	concurrency  int
}

func NewQuoteRefresher(tracer trace.Tracer, quotes QuoteSource, predictions PredictionPrices, follows FollowReturns, pollInterval time.Duration, concurrency int) *QuoteRefresher {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &QuoteRefresher{
		tracer:       tracer,
		quotes:       quotes,
		predictions:  predictions,
		follows:      follows,
		pollInterval: pollInterval,
		concurrency:  concurrency,
	}
}

// Start runs the refresh loop. Blocks until ctx is cancelled.
func (j *QuoteRefresher) Start(ctx context.Context) {
	log.Info().Dur("interval", j.pollInterval).Msg("quote refresher starting")

	j.refresh(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("quote refresher stopped")
			return
		case <-ticker.C:
			j.refresh(ctx)
		}
	}
}

func (j *QuoteRefresher) refresh(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "quote-refresher.refresh")
	defer span.End()

	symbols, err := j.predictions.ListActiveSymbols(ctx)
	if err != nil {
		log.Error().Err(err).Msg("quote refresh pass skipped, active symbols unavailable")
		return
	}
	if len(symbols) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for _, symbol := range symbols {
		g.Go(func() error {
			j.refreshSymbol(gctx, symbol)
			return nil
		})
	}
	g.Wait()
}

// refreshSymbol moves one symbol's quote into its predictions and follows.
// Failures stay local to the symbol.
func (j *QuoteRefresher) refreshSymbol(ctx context.Context, symbol string) {
	quote, err := j.quotes.RefreshQuote(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("quote refresh failed")
		return
	}

	moved, err := j.predictions.UpdateCurrentPrice(ctx, symbol, quote.Price)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("prediction price update failed")
		return
	}
	staked, err := j.follows.RefreshBySymbol(ctx, symbol, quote.Price)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("follow return update failed")
	}
	log.Debug().
		Str("symbol", symbol).
		Float64("price", quote.Price).
		Int64("predictions", moved).
		Int64("follows", staked).
		Msg("quote refreshed")
}
