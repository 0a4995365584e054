package service

import (
	"context"
	"encoding/json"
	"time"

	"stockduel/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const quoteCacheTTL = 60 * time.Second

type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// QuoteService serves market quotes through a short-TTL Redis cache in
// front of the provider. Entry prices and settlement prices both come
// through here.
type QuoteService struct {
	tracer   trace.Tracer
	provider QuoteProvider
	redis    RedisClient
	ttl      time.Duration
}

func NewQuoteService(tracer trace.Tracer, provider QuoteProvider, redisClient RedisClient, ttl time.Duration) *QuoteService {
	if ttl <= 0 {
		ttl = quoteCacheTTL
	}
	return &QuoteService{
		tracer:   tracer,
		provider: provider,
		redis:    redisClient,
		ttl:      ttl,
	}
}

// GetQuote returns the latest quote for a symbol, serving from cache inside
// the TTL window and falling back to a live provider call.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := s.tracer.Start(ctx, "quote-service.get-quote")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getQuoteCache(ctx, symbol)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("redis cache read error")
		}
		if cached != nil {
			return cached, nil
		}
	}
	return s.RefreshQuote(ctx, symbol)
}

// RefreshQuote always hits the provider and re-primes the cache.
func (s *QuoteService) RefreshQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "quote-service.refresh-quote")
	defer span.End()

	quote, err := s.provider.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if s.redis != nil {
		if err := s.setQuoteCache(ctx, quote); err != nil {
			log.Warn().Err(err).Str("symbol", quote.Symbol).Msg("redis cache write error")
		}
	}
	return quote, nil
}

func (s *QuoteService) setQuoteCache(ctx context.Context, quote *domain.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "quote:"+quote.Symbol, data, s.ttl).Err()
}

func (s *QuoteService) getQuoteCache(ctx context.Context, symbol string) (*domain.Quote, error) {
	data, err := s.redis.Get(ctx, "quote:"+symbol).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}
