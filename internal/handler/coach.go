package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type coachRequest struct {
	Message string `json:"message" binding:"required"`
}

// CoachChat godoc
// @Summary      Ask the trading coach
// @Description  Answers a question with the user's own record as context
// @Tags         coach
// @Accept       json
// @Produce      json
// @Param        userID   path      int           true  "User ID"
// @Param        request  body      coachRequest  true  "Question for the coach"
// @Success      200      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      503      {object}  map[string]string
// @Router       /api/coach/{userID} [post]
func (h *Handler) CoachChat(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.coach-chat")
	defer span.End()

	if h.coach == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "coach is not configured"})
		return
	}

	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	var req coachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Int64("user_id", userID))

	reply, err := h.coach.Advise(ctx, userID, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
