package advisor

import (
	"fmt"
	"strings"
	"time"

	"stockduel/internal/domain"
)

const coachPhilosophy = `You are the trading coach for a stock prediction contest. Players call a direction on a symbol over a fixed hold period and are scored on whether the direction was right, not on how far the price moved.

Scoring rules you can rely on:
- A correct call earns 10 points, plus a 20 point bonus from the third straight win and a 50 point bonus from the fifth.
- A wrong call resets the streak and costs 5 spendable points.
- Weekly and monthly boards score only the predictions opened inside that period.

Rules:
- Ground every observation in the player's record shown below. Never invent trades they did not make.
- If the record is unavailable, say so instead of guessing.
- Talk about direction, streaks and consistency. Do not give price targets.
- Keep responses short and direct. This is a chat, not a report.
- This is a game played with points, not money. Never frame answers as financial advice.`

func BuildSystemPrompt(contestContext string) string {
	var sb strings.Builder
	sb.WriteString(coachPhilosophy)
	sb.WriteString("\n\n--- PLAYER AND MARKET DATA (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(contestContext)
	return sb.String()
}

func FormatCoachContext(user *domain.User, predictions []domain.Prediction, quotes []*domain.Quote) string {
	var sb strings.Builder

	if user != nil {
		winRate := 0.0
		if user.TotalPredictions > 0 {
			winRate = float64(user.SuccessCount) / float64(user.TotalPredictions) * 100
		}
		sb.WriteString("\nPlayer Record:\n")
		sb.WriteString(fmt.Sprintf("  %s: level %d, %d points, %d predictions, %.0f%% win rate, streak %d (best %d)\n",
			user.Nickname, user.Level, user.TotalScore, user.TotalPredictions, winRate, user.CurrentStreak, user.MaxStreak))
	}

	if len(predictions) > 0 {
		sb.WriteString("\nRecent Predictions:\n")
		for _, p := range predictions {
			sb.WriteString(fmt.Sprintf("  %s %+.1f%% over %s: %s",
				p.Symbol, p.PredictedChange, p.HoldPeriod, p.Status))
			if p.ActualReturn != nil {
				sb.WriteString(fmt.Sprintf(" (actual %+.2f%%)", *p.ActualReturn))
			}
			sb.WriteString("\n")
		}
	}

	if len(quotes) > 0 {
		sb.WriteString("\nQuotes Mentioned:\n")
		for _, q := range quotes {
			sb.WriteString(fmt.Sprintf("  %s: $%.2f (%+.2f%% today)\n", q.Symbol, q.Price, q.ChangePct))
		}
	}

	if sb.Len() == 0 {
		return "No contest data currently available."
	}
	return sb.String()
}
