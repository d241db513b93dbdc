package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// IdentityVerifier handles identity document submissions
type IdentityVerifier interface {
	Submit(ctx context.Context, req models.VerificationRequest) (*models.Verification, error)
	Status(ctx context.Context, userID string) (*models.Verification, error)
}

// VerificationHandler handles identity verification
type VerificationHandler struct {
	verifier IdentityVerifier
	log      *zap.Logger
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verifier IdentityVerifier, log *zap.Logger) *VerificationHandler {
	return &VerificationHandler{verifier: verifier, log: log}
}

// VerifyImage POST /api/verify-image
func (h *VerificationHandler) VerifyImage(c *gin.Context) {
	var req models.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	v, err := h.verifier.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "Error processing verification")
		return
	}

	response.With(c, http.StatusOK, "Verification submitted successfully", gin.H{
		"verification_id":     v.ID,
		"verification_status": v.Status,
	})
}

// Status GET /api/verification-status/:user_id
func (h *VerificationHandler) Status(c *gin.Context) {
	v, err := h.verifier.Status(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, h.log, err, "Error fetching verification status")
		return
	}

	var submittedAt interface{}
	if !v.CreatedAt.IsZero() {
		submittedAt = v.CreatedAt
	}

	response.With(c, http.StatusOK, "", gin.H{
		"verification_status": v.Status,
		"submitted_at":        submittedAt,
	})
}
