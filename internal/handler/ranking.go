package handler

import (
	"net/http"

	"stockduel/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxRankingPageSize = 100

// ListRankings godoc
// @Summary      Leaderboard page
// @Description  Returns a page of the latest ranking snapshot for a board
// @Tags         rankings
// @Produce      json
// @Param        type    query     string  false  "Board type: weekly, monthly or total (default total)"
// @Param        period  query     string  false  "Period ID such as 2024-W11 or 2024-03 (default current)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {object}  cache.RankingPage
// @Failure      400     {object}  map[string]string
// @Router       /api/rankings [get]
func (h *Handler) ListRankings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-rankings")
	defer span.End()

	rankType := domain.RankType(c.DefaultQuery("type", string(domain.RankTotal)))
	if !rankType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be weekly, monthly or total"})
		return
	}
	span.SetAttributes(attribute.String("rank_type", string(rankType)))

	limit := queryInt(c, "limit", 20)
	if limit <= 0 || limit > maxRankingPageSize {
		limit = maxRankingPageSize
	}
	offset := queryInt(c, "offset", 0)

	page, err := h.rankings.GetRankingList(ctx, rankType, c.Query("period"), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetUserRanking godoc
// @Summary      A user's rank on a board
// @Tags         rankings
// @Produce      json
// @Param        userID  path      int     true   "User ID"
// @Param        type    query     string  false  "Board type (default total)"
// @Param        period  query     string  false  "Period ID (default current)"
// @Success      200     {object}  domain.RankingSnapshot
// @Failure      404     {object}  map[string]string
// @Router       /api/rankings/me/{userID} [get]
func (h *Handler) GetUserRanking(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-user-ranking")
	defer span.End()

	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	rankType := domain.RankType(c.DefaultQuery("type", string(domain.RankTotal)))
	if !rankType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be weekly, monthly or total"})
		return
	}

	row, err := h.rankings.GetUserRanking(ctx, userID, rankType, c.Query("period"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user is not on this board"})
		return
	}

	c.JSON(http.StatusOK, row)
}

type recalculateRequest struct {
	Type   string `json:"type" binding:"required"`
	Period string `json:"period"`
}

// RecalculateRankings godoc
// @Summary      Rebuild a leaderboard
// @Description  Recomputes and stores the snapshot for one board, replacing the previous rows
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      recalculateRequest  true  "Board to rebuild"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/rankings/recalculate [post]
func (h *Handler) RecalculateRankings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.recalculate-rankings")
	defer span.End()

	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("rank_type", req.Type))

	rows, err := h.rankings.CalculateRankings(ctx, domain.RankType(req.Type), req.Period)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"rank_type": req.Type, "rows": len(rows)}
	if len(rows) > 0 {
		resp["period"] = rows[0].Period
	}
	c.JSON(http.StatusOK, resp)
}
