package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// ContactManager manages a user's trusted contacts
type ContactManager interface {
	List(ctx context.Context, userID string) ([]models.TrustedContact, error)
	Add(ctx context.Context, userID string, in models.ContactInput) (*models.TrustedContact, error)
	Update(ctx context.Context, userID, id string, in models.ContactUpdate) (*models.TrustedContact, error)
	Delete(ctx context.Context, userID, id string) error
}

// ContactHandler handles trusted contact CRUD
type ContactHandler struct {
	contacts ContactManager
	log      *zap.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts ContactManager, log *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, log: log}
}

// List GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err, "Error fetching contacts")
		return
	}
	if contacts == nil {
		contacts = []models.TrustedContact{}
	}

	response.With(c, http.StatusOK, "", gin.H{"contacts": contacts})
}

// Add POST /api/contacts
func (h *ContactHandler) Add(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contacts.Add(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, h.log, err, "Error adding contact")
		return
	}

	response.With(c, http.StatusCreated, "Contact added successfully", gin.H{"contact": contact})
}

// Update PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	var in models.ContactUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), currentUserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err, "Error updating contact")
		return
	}

	response.With(c, http.StatusOK, "Contact updated successfully", gin.H{"contact": contact})
}

// Delete DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.log, err, "Error deleting contact")
		return
	}

	response.With(c, http.StatusOK, "Contact deleted successfully", nil)
}
