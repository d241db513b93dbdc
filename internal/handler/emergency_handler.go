package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// EmergencyNotifier alerts trusted contacts
type EmergencyNotifier interface {
	SendSOS(ctx context.Context, userID string, req models.SOSRequest) (*models.SOSAlert, error)
	ShareLocation(ctx context.Context, userID string, req models.LocationShareRequest) (int, error)
	History(ctx context.Context, userID string, limit int) ([]models.SOSAlert, error)
}

// EmergencyHandler handles SOS and live location sharing
type EmergencyHandler struct {
	emergency EmergencyNotifier
	log       *zap.Logger
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(emergency EmergencyNotifier, log *zap.Logger) *EmergencyHandler {
	return &EmergencyHandler{emergency: emergency, log: log}
}

// SendSOS POST /api/emergency/sos
func (h *EmergencyHandler) SendSOS(c *gin.Context) {
	var req models.SOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	alert, err := h.emergency.SendSOS(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		// the alert is persisted even when the gateway fails
		if alert != nil && errors.Is(err, models.ErrUpstream) {
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"message": err.Error(),
				"sos_id":  alert.ID,
			})
			return
		}
		respondError(c, h.log, err, "Error sending SOS alert")
		return
	}

	response.With(c, http.StatusOK, "SOS alert sent successfully", gin.H{
		"sos_id":            alert.ID,
		"timestamp":         alert.CreatedAt,
		"contacts_notified": alert.ContactsNotified,
	})
}

// SendLocation POST /api/emergency/send-location
func (h *EmergencyHandler) SendLocation(c *gin.Context) {
	var req models.LocationShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	n, err := h.emergency.ShareLocation(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, h.log, err, "Error sharing location")
		return
	}

	response.With(c, http.StatusOK, "Location shared with emergency contacts", gin.H{
		"contacts_notified": n,
	})
}

// History GET /api/emergency/history?limit=N
func (h *EmergencyHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	alerts, err := h.emergency.History(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondError(c, h.log, err, "Error fetching SOS history")
		return
	}

	response.With(c, http.StatusOK, "", gin.H{"alerts": alerts})
}
