// Package scoring holds the contest scoring rules: the per-settlement user
// aggregate transition, the period score formula shared with leaderboard
// recomputation, streak derivation, and badge assignment.
package scoring

import (
	"math"

	"stockduel/internal/domain"
)

const (
	baseGain       = 10
	streak3Bonus   = 20
	streak5Bonus   = 50
	failurePenalty = 5
	levelBand      = 1000
)

// Gain returns the score awarded for one successful settlement, evaluated
// at the streak value that already counts this success.
func Gain(streak int) int {
	gain := baseGain
	if streak >= 3 {
		gain += streak3Bonus
	}
	if streak >= 5 {
		gain += streak5Bonus
	}
	return gain
}

// Apply folds one settlement outcome into a user's aggregates. It is a pure
// value transition; callers guarantee exactly-once invocation per settlement.
// Total score never drops on failure, the spendable component is floored at
// zero, and levels never decrease.
func Apply(u domain.User, success bool) domain.User {
	u.TotalPredictions++
	if success {
		u.SuccessCount++
		u.CurrentStreak++
		if u.CurrentStreak > u.MaxStreak {
			u.MaxStreak = u.CurrentStreak
		}
		gain := Gain(u.CurrentStreak)
		u.TotalScore += gain
		u.SpendableScore += gain
	} else {
		u.FailedCount++
		u.CurrentStreak = 0
		u.SpendableScore -= failurePenalty
		if u.SpendableScore < 0 {
			u.SpendableScore = 0
		}
	}
	if lvl := u.TotalScore/levelBand + 1; lvl > u.Level {
		u.Level = lvl
	}
	return u
}

// PeriodScore recomputes a window score from settled outcomes in
// chronological order, re-running the same formula Apply uses instead of
// reading a cached running total. This keeps weekly and monthly scores
// independent of all-time score.
func PeriodScore(outcomes []bool) int {
	score := 0
	streak := 0
	for _, success := range outcomes {
		if success {
			streak++
			score += Gain(streak)
		} else {
			streak = 0
			score -= failurePenalty
		}
	}
	return score
}

// StreakWindow derives current and max streak from settled outcomes ordered
// newest first. The run of successes ending at the newest outcome is the
// current streak; the longest run anywhere in the window is the max.
func StreakWindow(newestFirst []bool) (current, longest int) {
	run := 0
	currentSet := false
	for _, success := range newestFirst {
		if success {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		if !currentSet {
			current = run
			currentSet = true
		}
		run = 0
	}
	if !currentSet {
		current = run
	}
	return current, longest
}

// ReturnPct is the percentage return of price against a nonzero base price.
func ReturnPct(base, price float64) float64 {
	if base == 0 {
		return 0
	}
	return (price - base) / base * 100
}

// AccuracyScore grades how close the realized return came to the predicted
// change, clamped to [0, 100]. It is reported alongside outcomes but never
// overrides the direction-based success decision.
func AccuracyScore(predictedChange, actualReturn float64) float64 {
	score := 100 - math.Abs(actualReturn-predictedChange)
	if score < 0 {
		return 0
	}
	return score
}

// Badge labels awarded by final leaderboard rank.
const (
	BadgeWeeklyChampion  = "weekly_champion"
	BadgeMonthlyChampion = "monthly_champion"
	BadgeOverallChampion = "overall_champion"
	BadgeRunnerUp        = "runner_up"
	BadgeThirdPlace      = "third_place"
	BadgeTopTen          = "top_ten"
)

// BadgeFor returns the badge for a dense rank, or "" from rank 10 down.
func BadgeFor(rankType domain.RankType, rank int) string {
	switch {
	case rank == 1:
		switch rankType {
		case domain.RankWeekly:
			return BadgeWeeklyChampion
		case domain.RankMonthly:
			return BadgeMonthlyChampion
		default:
			return BadgeOverallChampion
		}
	case rank == 2:
		return BadgeRunnerUp
	case rank == 3:
		return BadgeThirdPlace
	case rank <= 9:
		return BadgeTopTen
	default:
		return ""
	}
}
