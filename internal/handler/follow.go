package handler

import (
	"net/http"
	"strconv"

	"stockduel/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type createFollowRequest struct {
	UserID     int64   `json:"user_id" binding:"required"`
	TargetType string  `json:"target_type" binding:"required"`
	TargetID   int64   `json:"target_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
}

// CreateFollow godoc
// @Summary      Follow a prediction or a user
// @Description  Opens a paper position mirroring another user's call, or subscribes to a user
// @Tags         follows
// @Accept       json
// @Produce      json
// @Param        request  body      createFollowRequest  true  "Follow to open"
// @Success      201      {object}  domain.Follow
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /api/follows [post]
func (h *Handler) CreateFollow(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.create-follow")
	defer span.End()

	var req createFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("target_type", req.TargetType))

	f, err := h.follows.Follow(ctx, req.UserID, domain.FollowType(req.TargetType), req.TargetID, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// DeleteFollow godoc
// @Summary      Cancel a follow
// @Tags         follows
// @Produce      json
// @Param        id       path      int  true  "Follow ID"
// @Param        user_id  query     int  true  "Owner of the follow"
// @Success      200      {object}  domain.Follow
// @Failure      404      {object}  map[string]string
// @Router       /api/follows/{id} [delete]
func (h *Handler) DeleteFollow(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.delete-follow")
	defer span.End()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	f, err := h.follows.Unfollow(ctx, id, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// ListFollows godoc
// @Summary      List a user's follows
// @Tags         follows
// @Produce      json
// @Param        user_id  query     int  true   "User ID"
// @Param        limit    query     int  false  "Page size (default 50)"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /api/follows [get]
func (h *Handler) ListFollows(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-follows")
	defer span.End()

	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	follows, err := h.follows.ListByUser(ctx, userID, queryInt(c, "limit", 0))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"follows": follows, "count": len(follows)})
}
