package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// PollRecorder records and lists safety polls
type PollRecorder interface {
	Submit(ctx context.Context, sub models.PollSubmission) (*models.PollRecord, error)
	List(ctx context.Context) ([]models.PollRecord, error)
}

// PollHandler handles community safety polls
type PollHandler struct {
	polls PollRecorder
	log   *zap.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(polls PollRecorder, log *zap.Logger) *PollHandler {
	return &PollHandler{polls: polls, log: log}
}

var pollRequiredFields = []string{"location", "latitude", "longitude", "is_safe"}

// parsePollBody checks field presence and JSON types before the body reaches the service,
// so "12.5" as a string or "yes" as is_safe are rejected with a precise message.
func parsePollBody(body map[string]interface{}) (models.PollSubmission, string) {
	var sub models.PollSubmission

	for _, field := range pollRequiredFields {
		if v, ok := body[field]; !ok || v == nil || v == "" {
			return sub, field + " is required"
		}
	}

	location, ok := body["location"].(string)
	if !ok {
		return sub, "location must be a string"
	}
	lat, latOK := body["latitude"].(float64)
	lon, lonOK := body["longitude"].(float64)
	if !latOK || !lonOK {
		return sub, "Latitude and longitude must be numbers"
	}
	isSafe, ok := body["is_safe"].(bool)
	if !ok {
		return sub, "is_safe must be a boolean value"
	}

	sub.Location = &location
	sub.Latitude = &lat
	sub.Longitude = &lon
	sub.IsSafe = &isSafe
	if comment, ok := body["comment"].(string); ok {
		sub.Comment = comment
	}
	return sub, ""
}

// Submit POST /api/safety-poll
func (h *PollHandler) Submit(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, msg := parsePollBody(body)
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}

	poll, err := h.polls.Submit(c.Request.Context(), sub)
	if err != nil {
		respondError(c, h.log, err, "Error submitting safety poll")
		return
	}

	response.Created(c, "Safety poll submitted successfully", poll)
}

// List GET /api/safety-polls
func (h *PollHandler) List(c *gin.Context) {
	polls, err := h.polls.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Error fetching safety polls")
		return
	}
	if polls == nil {
		polls = []models.PollRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": polls})
}
