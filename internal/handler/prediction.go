package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"stockduel/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type createPredictionRequest struct {
	UserID          int64   `json:"user_id" binding:"required"`
	Symbol          string  `json:"symbol" binding:"required"`
	PredictedChange float64 `json:"predicted_change" binding:"required"`
	HoldPeriod      string  `json:"hold_period" binding:"required"`
}

// CreatePrediction godoc
// @Summary      Open a prediction
// @Description  Records a directional call on a symbol at the current quote price
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        request  body      createPredictionRequest  true  "Prediction to open"
// @Success      201      {object}  domain.Prediction
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/predictions [post]
func (h *Handler) CreatePrediction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.create-prediction")
	defer span.End()

	var req createPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol))

	p, err := h.predictions.Create(ctx, req.UserID, strings.ToUpper(req.Symbol), req.PredictedChange, domain.HoldPeriod(req.HoldPeriod))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// GetPrediction godoc
// @Summary      Get a prediction
// @Tags         predictions
// @Produce      json
// @Param        id   path      int  true  "Prediction ID"
// @Success      200  {object}  domain.Prediction
// @Failure      404  {object}  map[string]string
// @Router       /api/predictions/{id} [get]
func (h *Handler) GetPrediction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-prediction")
	defer span.End()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.predictions.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListPredictions godoc
// @Summary      List predictions
// @Description  Filters by user, symbol and status, newest first
// @Tags         predictions
// @Produce      json
// @Param        user_id  query     int     false  "Filter by user"
// @Param        symbol   query     string  false  "Filter by symbol"
// @Param        status   query     string  false  "Filter by status"
// @Param        limit    query     int     false  "Page size (default 50)"
// @Param        offset   query     int     false  "Page offset"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/predictions [get]
func (h *Handler) ListPredictions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-predictions")
	defer span.End()

	filter := domain.PredictionFilter{
		UserID: int64(queryInt(c, "user_id", 0)),
		Symbol: strings.ToUpper(c.Query("symbol")),
		Status: domain.PredictionStatus(c.Query("status")),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}

	predictions, err := h.predictions.List(ctx, filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": predictions, "count": len(predictions)})
}

type cancelPredictionRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// CancelPrediction godoc
// @Summary      Cancel a prediction
// @Description  Voids an active prediction before settlement, without touching scores
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Prediction ID"
// @Param        request  body      cancelPredictionRequest  true  "Owner of the prediction"
// @Success      200      {object}  domain.Prediction
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /api/predictions/{id}/cancel [post]
func (h *Handler) CancelPrediction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.cancel-prediction")
	defer span.End()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req cancelPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.predictions.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	// Someone else's prediction reads as absent rather than forbidden.
	if p.UserID != req.UserID {
		h.fail(c, domain.ErrNotFound)
		return
	}

	cancelled, err := h.settler.Cancel(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cancelled)
}

type settlePredictionRequest struct {
	ExitPrice *float64 `json:"exit_price"`
}

// SettlePrediction godoc
// @Summary      Settle a prediction
// @Description  Grades an active prediction against its latest price, or against an explicit exit price
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true   "Prediction ID"
// @Param        request  body      settlePredictionRequest  false  "Optional exit price override"
// @Success      200      {object}  domain.Prediction
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/predictions/{id}/settle [post]
func (h *Handler) SettlePrediction(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.settle-prediction")
	defer span.End()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// The body is optional. An empty one settles at the tracked price.
	var req settlePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ExitPrice != nil && *req.ExitPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exit_price must be positive"})
		return
	}

	p, err := h.settler.Settle(ctx, id, req.ExitPrice)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
