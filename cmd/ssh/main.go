package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"stockduel/internal/cache"
	"stockduel/internal/config"
	"stockduel/internal/db"
	"stockduel/internal/domain"
	"stockduel/internal/ranking"
	"stockduel/internal/repository"
	"stockduel/internal/tui"
	"stockduel/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gossh "golang.org/x/crypto/ssh"
)

// ctxKey is a typed context key to avoid collisions.
type ctxKey string

const sshUserKey ctxKey = "ssh_user"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	connectDBFunc     = db.Connect
	connectRedisFunc  = cache.NewClient
	initTracerFunc    = tracing.InitTracer
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "stockduel-ssh")
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

	redisClient, err := connectRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, leaderboard pages read from postgres")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewUserRepository(pool, tracer)
	predictionRepo := repository.NewPredictionRepository(pool, tracer)
	rankingRepo := repository.NewRankingRepository(pool, tracer)
	sshUserRepo := repository.NewSSHUserRepository(pool, tracer)

	// The terminal only reads boards, so the engine here shares the page
	// cache with the API server and never recomputes.
	var pages ranking.PageCache
	if redisClient != nil {
		pages = cache.NewRankingCache(redisClient, time.Duration(cfg.RankingRecomputeSecs)*time.Second)
	}
	rankingEngine := ranking.NewEngine(tracer, userRepo, predictionRepo, rankingRepo, pages, cfg.Location())

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			user, err := sshUserRepo.GetByFingerprint(context.Background(), fingerprint)
			if err != nil {
				log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("ssh auth denied")
				return false
			}
			ctx.SetValue(sshUserKey, user)
			log.Info().Str("nickname", user.Nickname).Str("fingerprint", fingerprint).
				Msg("ssh auth accepted")
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				user, _ := s.Context().Value(sshUserKey).(*domain.SSHUser)

				svc := tui.Services{Rankings: rankingEngine}
				if user != nil {
					svc.UserID = user.UserID
					svc.Nickname = user.Nickname
				}

				model := tui.NewAppModel(svc)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("ssh server setup failed")
	}

	if srv != nil {
		go func() {
			log.Info().Str("addr", addr).Msg("ssh server listening")
			if err := srv.ListenAndServe(); err != nil {
				log.Info().Err(err).Msg("ssh server stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down ssh server")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("ssh server shutdown error")
		}
	}

	log.Info().Msg("ssh server exited")
}
