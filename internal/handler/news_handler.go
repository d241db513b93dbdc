package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// NewsIngester stores and lists news mentions
type NewsIngester interface {
	Submit(ctx context.Context, sub models.NewsSubmission) (*models.NewsRecord, error)
	Recent(ctx context.Context, days int) ([]models.NewsRecord, error)
}

// NewsHandler handles news mentions
type NewsHandler struct {
	news NewsIngester
	log  *zap.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(news NewsIngester, log *zap.Logger) *NewsHandler {
	return &NewsHandler{news: news, log: log}
}

// Submit POST /api/news
func (h *NewsHandler) Submit(c *gin.Context) {
	var sub models.NewsSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "headline and location are required")
		return
	}

	record, err := h.news.Submit(c.Request.Context(), sub)
	if err != nil {
		respondError(c, h.log, err, "Error saving news")
		return
	}

	response.Created(c, "News recorded successfully", record)
}

// Recent GET /api/news?days=N
func (h *NewsHandler) Recent(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		response.BadRequest(c, "days must be a number")
		return
	}

	news, err := h.news.Recent(c.Request.Context(), days)
	if err != nil {
		respondError(c, h.log, err, "Error fetching news")
		return
	}
	if news == nil {
		news = []models.NewsRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": news})
}
