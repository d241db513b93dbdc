package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/service"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// LegalAssistant answers legal questions
type LegalAssistant interface {
	Ask(ctx context.Context, question string) (*models.LegalAnswer, error)
	Health() service.LegalHealth
}

// LegalHandler handles the legal assistant endpoints
type LegalHandler struct {
	assistant LegalAssistant
	log       *zap.Logger
}

// NewLegalHandler creates a new legal handler
func NewLegalHandler(assistant LegalAssistant, log *zap.Logger) *LegalHandler {
	return &LegalHandler{assistant: assistant, log: log}
}

// Ask POST /api/legal/ask
func (h *LegalHandler) Ask(c *gin.Context) {
	var req models.LegalQuestion
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, h.log, err, "Error answering question")
		return
	}

	c.JSON(http.StatusOK, answer)
}

// Health GET /api/legal/health
func (h *LegalHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistant.Health())
}
