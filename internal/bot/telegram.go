// Package bot exposes the contest over Telegram: leaderboards, player
// lookups, quotes and the coach.
package bot

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"stockduel/internal/cache"
	"stockduel/internal/domain"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

type RankingSource interface {
	GetRankingList(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*cache.RankingPage, error)
	GetUserRanking(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error)
}

type UserSource interface {
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)
}

type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type CoachSource interface {
	Advise(ctx context.Context, userID int64, question string) (string, error)
}

const leaderboardSize = 10

// StartTelegramBot long-polls Telegram in a background goroutine. Without a
// token it is a no-op, so the API can run standalone.
func StartTelegramBot(rankings RankingSource, users UserSource, quotes QuoteSource, coach CoachSource) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Telegram bot")
		return
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/top", func(c tele.Context) error {
		rankType := domain.RankTotal
		if args := c.Args(); len(args) > 0 {
			rankType = domain.RankType(strings.ToLower(args[0]))
			if !rankType.IsValid() {
				return c.Send("Usage: /top [weekly|monthly|total]")
			}
		}
		page, err := rankings.GetRankingList(context.Background(), rankType, "", leaderboardSize, 0)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching the %s board: %v", rankType, err))
		}
		return c.Send(formatLeaderboard(rankType, page))
	})

	b.Handle("/rank", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /rank <nickname>")
		}
		user, err := users.GetByNickname(context.Background(), args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("No player named %s", args[0]))
		}
		row, err := rankings.GetUserRanking(context.Background(), user.ID, domain.RankTotal, "")
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching rank for %s: %v", user.Nickname, err))
		}
		return c.Send(formatUserRank(user, row))
	})

	b.Handle("/streak", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /streak <nickname>")
		}
		user, err := users.GetByNickname(context.Background(), args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("No player named %s", args[0]))
		}
		return c.Send(formatStreak(user))
	})

	b.Handle("/quote", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /quote AAPL")
		}
		symbol := strings.ToUpper(args[0])
		quote, err := quotes.GetQuote(context.Background(), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching quote for %s: %v", symbol, err))
		}
		return c.Send(formatQuote(quote))
	})

	b.Handle("/coach", func(c tele.Context) error {
		if coach == nil {
			return c.Send("The coach is not configured.")
		}
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Usage: /coach <nickname> <question>")
		}
		user, err := users.GetByNickname(context.Background(), args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("No player named %s", args[0]))
		}
		reply, err := coach.Advise(context.Background(), user.ID, strings.Join(args[1:], " "))
		if err != nil {
			return c.Send(fmt.Sprintf("Coach error: %v", err))
		}
		return c.Send(reply)
	})

	log.Info().Msg("Telegram bot started")
	go b.Start()
}

func formatLeaderboard(rankType domain.RankType, page *cache.RankingPage) string {
	if page == nil || len(page.Rows) == 0 {
		return fmt.Sprintf("The %s board is empty. Rankings rebuild every few minutes.", rankType)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s leaderboard\n", strings.ToUpper(string(rankType))))
	for _, row := range page.Rows {
		sb.WriteString(fmt.Sprintf("%2d. %s — %d pts, %.0f%% win", row.Rank, rowName(row), row.PeriodScore, row.WinRate*100))
		if row.CurrentStreak > 0 {
			sb.WriteString(fmt.Sprintf(", streak %d", row.CurrentStreak))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func rowName(row domain.RankingSnapshot) string {
	if row.Nickname != "" {
		return row.Nickname
	}
	return fmt.Sprintf("player %d", row.UserID)
}

func formatUserRank(user *domain.User, row *domain.RankingSnapshot) string {
	if row == nil {
		return fmt.Sprintf("%s is not on the board yet. Settled predictions put you there.", user.Nickname)
	}
	msg := fmt.Sprintf("%s: rank %d on the %s board\n%d pts, %.0f%% win rate, level %d",
		user.Nickname, row.Rank, row.RankType, row.Score, row.WinRate*100, user.Level)
	if row.Badge != "" {
		msg += fmt.Sprintf("\nBadge: %s", row.Badge)
	}
	return msg
}

func formatStreak(user *domain.User) string {
	return fmt.Sprintf("%s: streak %d (best %d)\n%d wins / %d predictions",
		user.Nickname, user.CurrentStreak, user.MaxStreak, user.SuccessCount, user.TotalPredictions)
}

func formatQuote(q *domain.Quote) string {
	return fmt.Sprintf("%s\nPrice: $%.2f\nChange: %+.2f (%+.2f%%)\nRange: $%.2f - $%.2f",
		q.Symbol, q.Price, q.Change, q.ChangePct, q.Low, q.High)
}
