package domain

import "time"

type PredictionStatus string

const (
	PredictionActive    PredictionStatus = "active"
	PredictionSuccess   PredictionStatus = "success"
	PredictionFailed    PredictionStatus = "failed"
	PredictionExpired   PredictionStatus = "expired"
	PredictionCancelled PredictionStatus = "cancelled"
)

func (s PredictionStatus) IsTerminal() bool {
	return s != PredictionActive
}

type HoldPeriod string

const (
	Hold1Week   HoldPeriod = "1w"
	Hold2Weeks  HoldPeriod = "2w"
	Hold1Month  HoldPeriod = "1m"
	Hold3Months HoldPeriod = "3m"
)

func (h HoldPeriod) IsValid() bool {
	switch h {
	case Hold1Week, Hold2Weeks, Hold1Month, Hold3Months:
		return true
	}
	return false
}

// Days returns the hold-period length used to derive a prediction's end date.
func (h HoldPeriod) Days() int {
	switch h {
	case Hold1Week:
		return 7
	case Hold2Weeks:
		return 14
	case Hold1Month:
		return 30
	case Hold3Months:
		return 90
	}
	return 0
}

// Prediction is a user's directional price call on a symbol. Exit price,
// actual return, and settled-at stay nil while the prediction is active and
// are frozen once it leaves that state.
type Prediction struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	Symbol          string           `json:"symbol"`
	PredictedChange float64          `json:"predicted_change"`
	HoldPeriod      HoldPeriod       `json:"hold_period"`
	EntryPrice      float64          `json:"entry_price"`
	CurrentPrice    *float64         `json:"current_price,omitempty"`
	CurrentReturn   *float64         `json:"current_return,omitempty"`
	ExitPrice       *float64         `json:"exit_price,omitempty"`
	ActualReturn    *float64         `json:"actual_return,omitempty"`
	Status          PredictionStatus `json:"status"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	SettledAt       *time.Time       `json:"settled_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type PredictionFilter struct {
	UserID int64
	Symbol string
	Status PredictionStatus
	Limit  int
	Offset int
}

// User carries the contest aggregates mutated only by the settlement cascade.
// After any settlement, TotalPredictions == SuccessCount + FailedCount.
type User struct {
	ID               int64     `json:"id"`
	Nickname         string    `json:"nickname"`
	IsActive         bool      `json:"is_active"`
	TotalPredictions int       `json:"total_predictions"`
	SuccessCount     int       `json:"success_count"`
	FailedCount      int       `json:"failed_count"`
	CurrentStreak    int       `json:"current_streak"`
	MaxStreak        int       `json:"max_streak"`
	TotalScore       int       `json:"total_score"`
	SpendableScore   int       `json:"spendable_score"`
	Level            int       `json:"level"`
	CreatedAt        time.Time `json:"created_at"`
}

type FollowType string

const (
	FollowRecommend FollowType = "recommend"
	FollowUser      FollowType = "user"
)

func (f FollowType) IsValid() bool {
	return f == FollowRecommend || f == FollowUser
}

type FollowStatus string

const (
	FollowActive    FollowStatus = "active"
	FollowCompleted FollowStatus = "completed"
	FollowCancelled FollowStatus = "cancelled"
)

// Follow is a virtual stake mirroring either one prediction or another user.
type Follow struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"user_id"`
	TargetType    FollowType   `json:"target_type"`
	TargetID      int64        `json:"target_id"`
	Amount        float64      `json:"amount"`
	PriceAtFollow float64      `json:"price_at_follow"`
	CurrentReturn *float64     `json:"current_return,omitempty"`
	ActualReturn  *float64     `json:"actual_return,omitempty"`
	Status        FollowStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

type RankType string

const (
	RankWeekly  RankType = "weekly"
	RankMonthly RankType = "monthly"
	RankTotal   RankType = "total"
)

func (r RankType) IsValid() bool {
	return r == RankWeekly || r == RankMonthly || r == RankTotal
}

// RankingSnapshot is one leaderboard row for (user, rank type, period).
// For a fixed type and period, ranks form a dense permutation 1..N.
type RankingSnapshot struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	Nickname           string     `json:"nickname,omitempty"`
	RankType           RankType   `json:"rank_type"`
	Period             string     `json:"period"`
	Rank               int        `json:"rank"`
	PreviousRank       *int       `json:"previous_rank,omitempty"`
	Score              int        `json:"score"`
	PeriodScore        int        `json:"period_score"`
	TotalPredictions   int        `json:"total_predictions"`
	SuccessPredictions int        `json:"success_predictions"`
	WinRate            float64    `json:"win_rate"`
	AvgReturn          float64    `json:"avg_return"`
	MaxReturn          float64    `json:"max_return"`
	CurrentStreak      int        `json:"current_streak"`
	MaxStreak          int        `json:"max_streak"`
	PeriodStart        *time.Time `json:"period_start,omitempty"`
	PeriodEnd          *time.Time `json:"period_end,omitempty"`
	Badge              string     `json:"badge,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// SSHUser links an SSH public-key fingerprint to a contest user for the
// terminal leaderboard.
type SSHUser struct {
	ID          int64
	UserID      int64
	Nickname    string
	Fingerprint string
	CreatedAt   time.Time
}
