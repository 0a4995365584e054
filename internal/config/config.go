package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string
	RedisURL    string

	Port   int
	APIKey string

	FinnhubAPIKey string
	QuoteTTLSecs  int
	QuotePollSecs int

	ExpirySweepSecs      int
	ExpiryBatchSize      int
	RankingRecomputeSecs int

	Timezone string

	TelegramBotToken string

	OpenAIAPIKey    string
	OpenAIModel     string
	CoachMaxHistory int

	SSHPort        int
	SSHHostKeyPath string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("API_KEY not set, admin routes are open")
	}
	if cfg.FinnhubAPIKey == "" {
		log.Warn().Msg("FINNHUB_API_KEY not set, quote fetches will fail")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, coach will be disabled")
	}

	cfg.Port = envInt("PORT", 8080)
	cfg.QuoteTTLSecs = envInt("QUOTE_TTL_SECS", 60)
	cfg.QuotePollSecs = envInt("QUOTE_POLL_SECS", 60)
	cfg.ExpirySweepSecs = envInt("EXPIRY_SWEEP_SECS", 300)
	cfg.ExpiryBatchSize = envInt("EXPIRY_BATCH_SIZE", 100)
	cfg.RankingRecomputeSecs = envInt("RANKING_RECOMPUTE_SECS", 600)
	cfg.CoachMaxHistory = envInt("COACH_MAX_HISTORY", 20)
	cfg.SSHPort = envInt("SSH_PORT", 2222)

	cfg.Timezone = strings.TrimSpace(os.Getenv("CONTEST_TIMEZONE"))
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/stockduel_ed25519"
	}

	return cfg
}

// Location resolves the contest timezone. Period boundaries are local
// midnights in this location.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Str("timezone", c.Timezone).Err(err).Msg("unknown timezone, falling back to UTC")
		return time.UTC
	}
	return loc
}

func envInt(name string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("var", name).Str("value", v).Msg("ignoring invalid value")
		return fallback
	}
	return n
}
