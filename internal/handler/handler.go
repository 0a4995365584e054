package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stockduel/internal/cache"
	"stockduel/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type PredictionOpener interface {
	Create(ctx context.Context, userID int64, symbol string, predictedChange float64, hold domain.HoldPeriod) (*domain.Prediction, error)
	Get(ctx context.Context, id int64) (*domain.Prediction, error)
	List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error)
}

type Settler interface {
	Settle(ctx context.Context, id int64, exitPriceOverride *float64) (*domain.Prediction, error)
	Cancel(ctx context.Context, id int64) (*domain.Prediction, error)
}

type RankingProvider interface {
	CalculateRankings(ctx context.Context, rankType domain.RankType, periodID string) ([]domain.RankingSnapshot, error)
	GetRankingList(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*cache.RankingPage, error)
	GetUserRanking(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error)
}

type FollowManager interface {
	Follow(ctx context.Context, userID int64, targetType domain.FollowType, targetID int64, amount float64) (*domain.Follow, error)
	Unfollow(ctx context.Context, id, userID int64) (*domain.Follow, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Follow, error)
}

type QuoteGetter interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type UserDirectory interface {
	Create(ctx context.Context, nickname string) (*domain.User, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)
}

type SymbolDirectory interface {
	Get(ctx context.Context, symbol string) (*domain.Symbol, error)
	List(ctx context.Context) ([]domain.Symbol, error)
}

type CoachService interface {
	Advise(ctx context.Context, userID int64, question string) (string, error)
}

type SSHKeyRegistrar interface {
	Register(ctx context.Context, userID int64, fingerprint string) error
}

type Handler struct {
	tracer      trace.Tracer
	predictions PredictionOpener
	settler     Settler
	rankings    RankingProvider
	follows     FollowManager
	quotes      QuoteGetter
	users       UserDirectory
	symbols     SymbolDirectory
	coach       CoachService
	sshKeys     SSHKeyRegistrar
}

func New(tracer trace.Tracer, predictions PredictionOpener, settler Settler, rankings RankingProvider, follows FollowManager, quotes QuoteGetter, users UserDirectory, symbols SymbolDirectory, coach CoachService, sshKeys SSHKeyRegistrar) *Handler {
	return &Handler{
		tracer:      tracer,
		predictions: predictions,
		settler:     settler,
		rankings:    rankings,
		follows:     follows,
		quotes:      quotes,
		users:       users,
		symbols:     symbols,
		coach:       coach,
		sshKeys:     sshKeys,
	}
}

// RegisterRoutes wires the public API and the key-guarded admin routes.
func (h *Handler) RegisterRoutes(r *gin.Engine, adminKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/users", h.RegisterUser)
		api.GET("/users/:nickname", h.GetUser)

		api.POST("/predictions", h.CreatePrediction)
		api.GET("/predictions", h.ListPredictions)
		api.GET("/predictions/:id", h.GetPrediction)
		api.POST("/predictions/:id/cancel", h.CancelPrediction)

		api.GET("/rankings", h.ListRankings)
		api.GET("/rankings/me/:userID", h.GetUserRanking)

		api.POST("/follows", h.CreateFollow)
		api.DELETE("/follows/:id", h.DeleteFollow)
		api.GET("/follows", h.ListFollows)

		api.GET("/quotes/:symbol", h.GetQuote)
		api.GET("/symbols", h.ListSymbols)
		api.GET("/symbols/:symbol/stats", h.GetSymbolStats)

		api.POST("/coach/:userID", h.CoachChat)
	}

	admin := r.Group("/api", RequireAPIKey(adminKey))
	{
		admin.POST("/predictions/:id/settle", h.SettlePrediction)
		admin.POST("/rankings/recalculate", h.RecalculateRankings)
		admin.POST("/ssh-keys", h.RegisterSSHKey)
	}
}

// statusFor maps domain sentinels onto HTTP statuses. Conflict covers every
// state the client can resolve by retrying or changing the request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotActive),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrConcurrencyConflict),
		errors.Is(err, domain.ErrMissingPrice):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// pathID parses a positive integer path parameter, answering the request
// itself on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
