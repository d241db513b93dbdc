package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// Authenticator registers and logs in users
type Authenticator interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error)
}

// AuthHandler handles registration and login
type AuthHandler struct {
	auth Authenticator
	log  *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register creates an account
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Error registering user")
		return
	}

	response.With(c, http.StatusCreated, "User registered successfully", gin.H{"user": user})
}

// Login issues a session token
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Error logging in")
		return
	}

	response.With(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}
