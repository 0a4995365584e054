// Package ranking recomputes and serves the leaderboard snapshots. A
// recomputation gathers every active user's predictions inside the period
// window, rescores them from raw outcomes, sorts, ranks, badges, and swaps
// the stored snapshot set atomically.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stockduel/internal/cache"
	"stockduel/internal/domain"
	"stockduel/internal/period"
	"stockduel/internal/scoring"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// streakScanDepth caps how far back the per-period streak walk looks.
const streakScanDepth = 20

const claimTTL = 2 * time.Minute

type UserStore interface {
	ListActive(ctx context.Context) ([]domain.User, error)
}

type PredictionStore interface {
	ListCreatedBetween(ctx context.Context, start, end *time.Time) ([]domain.Prediction, error)
}

type SnapshotStore interface {
	ReplaceSnapshots(ctx context.Context, rankType domain.RankType, periodID string, snapshots []domain.RankingSnapshot) error
	List(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) ([]domain.RankingSnapshot, int, error)
	GetUser(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error)
	PreviousRanks(ctx context.Context, rankType domain.RankType, periodID string) (map[int64]int, error)
	Claim(ctx context.Context, rankType domain.RankType, periodID string, now time.Time, ttl time.Duration) (bool, error)
	Release(ctx context.Context, rankType domain.RankType, periodID string) error
}

type PageCache interface {
	GetPage(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*cache.RankingPage, bool)
	SetPage(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int, page cache.RankingPage) error
	Invalidate(ctx context.Context, rankType domain.RankType, periodID string) error
}

type Engine struct {
	tracer      trace.Tracer
	users       UserStore
	predictions PredictionStore
	snapshots   SnapshotStore
	pages       PageCache
	loc         *time.Location
	now         func() time.Time
}

func NewEngine(tracer trace.Tracer, users UserStore, predictions PredictionStore, snapshots SnapshotStore, pages PageCache, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		tracer:      tracer,
		users:       users,
		predictions: predictions,
		snapshots:   snapshots,
		pages:       pages,
		loc:         loc,
		now:         time.Now,
	}
}

// resolvePeriod fills in the current period when the caller passed none.
// The total type has exactly one period, so any caller value collapses to it.
func (e *Engine) resolvePeriod(rankType domain.RankType, periodID string) string {
	if rankType == domain.RankTotal {
		return period.Total
	}
	if periodID == "" {
		return period.Current(rankType, e.now().In(e.loc))
	}
	return periodID
}

// CalculateRankings rebuilds the snapshot set for one (type, period). Only
// one recomputation may run per (type, period) at a time; a second caller
// gets ErrConcurrencyConflict and should retry after the running pass ends.
func (e *Engine) CalculateRankings(ctx context.Context, rankType domain.RankType, periodID string) ([]domain.RankingSnapshot, error) {
	ctx, span := e.tracer.Start(ctx, "ranking.calculate")
	defer span.End()

	if !rankType.IsValid() {
		return nil, fmt.Errorf("calculate rankings: %w: rank type %q", domain.ErrInvalidInput, rankType)
	}
	periodID = e.resolvePeriod(rankType, periodID)
	start, end, err := period.Range(rankType, periodID, e.loc)
	if err != nil {
		return nil, fmt.Errorf("calculate rankings: %w", err)
	}

	claimed, err := e.snapshots.Claim(ctx, rankType, periodID, e.now().UTC(), claimTTL)
	if err != nil {
		return nil, fmt.Errorf("calculate rankings %s/%s: claim: %w", rankType, periodID, err)
	}
	if !claimed {
		return nil, fmt.Errorf("calculate rankings %s/%s: already running: %w", rankType, periodID, domain.ErrConcurrencyConflict)
	}
	defer func() {
		if err := e.snapshots.Release(ctx, rankType, periodID); err != nil {
			log.Warn().Err(err).Str("rank_type", string(rankType)).Str("period", periodID).
				Msg("ranking claim release failed, claim expires by TTL")
		}
	}()

	users, err := e.users.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("calculate rankings %s/%s: list users: %w", rankType, periodID, err)
	}
	predictions, err := e.predictions.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("calculate rankings %s/%s: list predictions: %w", rankType, periodID, err)
	}
	byUser := make(map[int64][]domain.Prediction, len(users))
	for _, p := range predictions {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	// Previous ranks are decoration on the new snapshot. A read failure
	// leaves them null rather than aborting the recomputation.
	prevRanks := map[int64]int{}
	if prevPeriod, err := period.Previous(rankType, periodID); err == nil {
		if ranks, err := e.snapshots.PreviousRanks(ctx, rankType, prevPeriod); err == nil {
			prevRanks = ranks
		} else {
			log.Warn().Err(err).Str("rank_type", string(rankType)).Str("period", prevPeriod).
				Msg("previous ranks unavailable")
		}
	}

	rows := make([]domain.RankingSnapshot, 0, len(users))
	for _, u := range users {
		rows = append(rows, buildRow(u, byUser[u.ID], rankType))
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PeriodScore != b.PeriodScore {
			return a.PeriodScore > b.PeriodScore
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.AvgReturn != b.AvgReturn {
			return a.AvgReturn > b.AvgReturn
		}
		return a.UserID < b.UserID
	})

	now := e.now().UTC()
	for i := range rows {
		rows[i].RankType = rankType
		rows[i].Period = periodID
		rows[i].Rank = i + 1
		rows[i].Badge = scoring.BadgeFor(rankType, rows[i].Rank)
		rows[i].PeriodStart = start
		rows[i].PeriodEnd = end
		rows[i].CreatedAt = now
		if prev, ok := prevRanks[rows[i].UserID]; ok {
			p := prev
			rows[i].PreviousRank = &p
		}
	}

	if err := e.snapshots.ReplaceSnapshots(ctx, rankType, periodID, rows); err != nil {
		return nil, fmt.Errorf("calculate rankings %s/%s: replace snapshots: %w", rankType, periodID, err)
	}
	if e.pages != nil {
		if err := e.pages.Invalidate(ctx, rankType, periodID); err != nil {
			log.Warn().Err(err).Str("rank_type", string(rankType)).Str("period", periodID).
				Msg("ranking cache invalidation failed")
		}
	}

	log.Info().
		Str("rank_type", string(rankType)).
		Str("period", periodID).
		Int("rows", len(rows)).
		Msg("rankings recomputed")
	return rows, nil
}

// buildRow computes one user's unranked leaderboard row from their period
// predictions, ordered by creation time.
func buildRow(u domain.User, predictions []domain.Prediction, rankType domain.RankType) domain.RankingSnapshot {
	row := domain.RankingSnapshot{
		UserID:           u.ID,
		Nickname:         u.Nickname,
		Score:            u.TotalScore,
		TotalPredictions: len(predictions),
	}

	type outcome struct {
		success   bool
		settledAt time.Time
	}
	var settled []outcome
	returns := 0
	for _, p := range predictions {
		if p.Status == domain.PredictionSuccess {
			row.SuccessPredictions++
		}
		if p.ActualReturn != nil {
			returns++
			row.AvgReturn += *p.ActualReturn
			if returns == 1 || *p.ActualReturn > row.MaxReturn {
				row.MaxReturn = *p.ActualReturn
			}
		}
		if (p.Status == domain.PredictionSuccess || p.Status == domain.PredictionFailed) && p.SettledAt != nil {
			settled = append(settled, outcome{p.Status == domain.PredictionSuccess, *p.SettledAt})
		}
	}
	if row.TotalPredictions > 0 {
		row.WinRate = float64(row.SuccessPredictions) / float64(row.TotalPredictions)
	}
	if returns > 0 {
		row.AvgReturn /= float64(returns)
	}

	// Score the settled outcomes in the order they were decided, so streak
	// bonuses land exactly where the live accumulator put them.
	sort.Slice(settled, func(i, j int) bool { return settled[i].settledAt.Before(settled[j].settledAt) })
	chronological := make([]bool, len(settled))
	for i, o := range settled {
		chronological[i] = o.success
	}
	if rankType == domain.RankTotal {
		row.PeriodScore = u.TotalScore
	} else {
		row.PeriodScore = scoring.PeriodScore(chronological)
	}

	newestFirst := make([]bool, 0, streakScanDepth)
	for i := len(chronological) - 1; i >= 0 && len(newestFirst) < streakScanDepth; i-- {
		newestFirst = append(newestFirst, chronological[i])
	}
	row.CurrentStreak, row.MaxStreak = scoring.StreakWindow(newestFirst)
	return row
}

// GetRankingList serves one leaderboard page, rank ascending, through the
// page cache when one is configured.
func (e *Engine) GetRankingList(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*cache.RankingPage, error) {
	ctx, span := e.tracer.Start(ctx, "ranking.list")
	defer span.End()

	if !rankType.IsValid() {
		return nil, fmt.Errorf("ranking list: %w: rank type %q", domain.ErrInvalidInput, rankType)
	}
	periodID = e.resolvePeriod(rankType, periodID)

	if e.pages != nil {
		if page, ok := e.pages.GetPage(ctx, rankType, periodID, limit, offset); ok {
			return page, nil
		}
	}

	rows, total, err := e.snapshots.List(ctx, rankType, periodID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ranking list %s/%s: %w", rankType, periodID, err)
	}
	page := cache.RankingPage{Rows: rows, Total: total}
	if e.pages != nil {
		if err := e.pages.SetPage(ctx, rankType, periodID, limit, offset, page); err != nil {
			log.Warn().Err(err).Str("rank_type", string(rankType)).Str("period", periodID).
				Msg("ranking page cache write failed")
		}
	}
	return &page, nil
}

// GetUserRanking returns one user's snapshot row for a period, or nil when
// the user has no row there.
func (e *Engine) GetUserRanking(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error) {
	ctx, span := e.tracer.Start(ctx, "ranking.get-user")
	defer span.End()

	if !rankType.IsValid() {
		return nil, fmt.Errorf("user ranking: %w: rank type %q", domain.ErrInvalidInput, rankType)
	}
	periodID = e.resolvePeriod(rankType, periodID)

	snapshot, err := e.snapshots.GetUser(ctx, userID, rankType, periodID)
	if err != nil {
		return nil, fmt.Errorf("user ranking %d %s/%s: %w", userID, rankType, periodID, err)
	}
	return snapshot, nil
}
