package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockduel/internal/advisor"
	"stockduel/internal/bot"
	"stockduel/internal/cache"
	"stockduel/internal/config"
	"stockduel/internal/db"
	"stockduel/internal/handler"
	"stockduel/internal/job"
	"stockduel/internal/provider"
	"stockduel/internal/ranking"
	"stockduel/internal/repository"
	"stockduel/internal/service"
	"stockduel/internal/settlement"
	"stockduel/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "stockduel/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	connectDBFunc    = db.Connect
	connectRedisFunc = cache.NewClient
	initTracerFunc   = tracing.InitTracer

	startQuoteRefresherFunc    = func(j *job.QuoteRefresher, ctx context.Context) { go j.Start(ctx) }
	startExpirySweeperFunc     = func(j *job.ExpirySweeper, ctx context.Context) { go j.Start(ctx) }
	startRankingRecomputerFunc = func(j *job.RankingRecomputer, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc       = bot.StartTelegramBot

	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           StockDuel API
// @version         1.0
// @description     Stock prediction contest: open directional calls, settle them
// @description     against real quotes, climb the leaderboards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in   header
// @name X-API-Key
func main() {
	loadEnvFunc()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "stockduel-api")
	if err != nil {
		log.Fatal().Err(err).Msg("tracer init failed")
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("tracer provider shutdown failed")
		}
	}()

	pool, err := connectDBFunc(ctx, cfg.DatabaseURL, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	if pool != nil {
		defer pool.Close()
	}

	// Redis is an accelerator, not a dependency. Without it quote reads hit
	// the provider and leaderboard pages hit Postgres.
	redisClient, err := connectRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, quote and ranking caches disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewUserRepository(pool, tracer)
	predictionRepo := repository.NewPredictionRepository(pool, tracer)
	followRepo := repository.NewFollowRepository(pool, tracer)
	rankingRepo := repository.NewRankingRepository(pool, tracer)
	symbolRepo := repository.NewSymbolRepository(pool, tracer)
	conversationRepo := repository.NewConversationRepository(pool, tracer)
	sshUserRepo := repository.NewSSHUserRepository(pool, tracer)

	finnhub := provider.NewFinnhubProvider(cfg.FinnhubAPIKey, tracer)
	var quoteCache service.RedisClient
	if redisClient != nil {
		quoteCache = redisClient
	}
	quoteService := service.NewQuoteService(tracer, finnhub, quoteCache,
		time.Duration(cfg.QuoteTTLSecs)*time.Second)

	settleEngine := settlement.NewEngine(tracer, predictionRepo, userRepo, followRepo, symbolRepo)

	var pages ranking.PageCache
	if redisClient != nil {
		pages = cache.NewRankingCache(redisClient, time.Duration(cfg.RankingRecomputeSecs)*time.Second)
	}
	rankingEngine := ranking.NewEngine(tracer, userRepo, predictionRepo, rankingRepo, pages, cfg.Location())

	predictionService := service.NewPredictionService(tracer, predictionRepo, userRepo, symbolRepo, quoteService)
	followService := service.NewFollowService(tracer, followRepo, predictionRepo, userRepo)

	refresher := job.NewQuoteRefresher(tracer, quoteService, predictionRepo, followRepo,
		time.Duration(cfg.QuotePollSecs)*time.Second, 4)
	startQuoteRefresherFunc(refresher, ctx)

	sweeper := job.NewExpirySweeper(tracer, predictionRepo, settleEngine,
		time.Duration(cfg.ExpirySweepSecs)*time.Second, cfg.ExpiryBatchSize)
	startExpirySweeperFunc(sweeper, ctx)

	recomputer := job.NewRankingRecomputer(tracer, rankingEngine,
		time.Duration(cfg.RankingRecomputeSecs)*time.Second)
	startRankingRecomputerFunc(recomputer, ctx)

	var coach handler.CoachService
	var botCoach bot.CoachSource
	if cfg.OpenAIAPIKey != "" {
		c := advisor.NewCoach(tracer, advisor.NewOpenAIClient(cfg.OpenAIAPIKey),
			userRepo, predictionRepo, quoteService, conversationRepo,
			cfg.OpenAIModel, cfg.CoachMaxHistory)
		coach = c
		botCoach = c
	}

	startTelegramBotFunc(rankingEngine, userRepo, quoteService, botCoach)

	h := handler.New(tracer, predictionService, settleEngine, rankingEngine,
		followService, quoteService, userRepo, symbolRepo, coach, sshUserRepo)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("stockduel-api"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
