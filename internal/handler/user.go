package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	gossh "golang.org/x/crypto/ssh"
)

type registerUserRequest struct {
	Nickname string `json:"nickname" binding:"required,min=2,max=32"`
}

// RegisterUser godoc
// @Summary      Register a contestant
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      registerUserRequest  true  "Nickname to register"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /api/users [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.register-user")
	defer span.End()

	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("nickname", req.Nickname))

	u, err := h.users.Create(ctx, req.Nickname)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// GetUser godoc
// @Summary      Look up a contestant by nickname
// @Tags         users
// @Produce      json
// @Param        nickname  path      string  true  "Nickname"
// @Success      200       {object}  domain.User
// @Failure      404       {object}  map[string]string
// @Router       /api/users/{nickname} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-user")
	defer span.End()

	u, err := h.users.GetByNickname(ctx, c.Param("nickname"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

type registerSSHKeyRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	PublicKey string `json:"public_key" binding:"required"`
}

// RegisterSSHKey godoc
// @Security     ApiKeyAuth
// @Summary      Link an SSH public key
// @Description  Stores the key's fingerprint so its owner can log into the SSH leaderboard
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      registerSSHKeyRequest  true  "Key to link"
// @Success      201      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /api/ssh-keys [post]
func (h *Handler) RegisterSSHKey(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.register-ssh-key")
	defer span.End()

	var req registerSSHKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, _, _, _, err := gossh.ParseAuthorizedKey([]byte(req.PublicKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not an authorized_keys line"})
		return
	}

	fingerprint := gossh.FingerprintSHA256(key)
	span.SetAttributes(attribute.String("fingerprint", fingerprint))

	if err := h.sshKeys.Register(ctx, req.UserID, fingerprint); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fingerprint": fingerprint})
}
