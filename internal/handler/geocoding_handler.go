package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/middleware"
	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// GeocodingTaskRunner runs and tracks the crime geocoding job
type GeocodingTaskRunner interface {
	CreateTask(ctx context.Context, createdBy string) (*models.GeocodingTask, error)
	GetTask(ctx context.Context, id int) (*models.GeocodingTask, error)
	ListTasks(ctx context.Context, status string, limit int, offset int) ([]*models.GeocodingTask, error)
	CancelTask(ctx context.Context, id int) error
}

// GeocodingHandler handles HTTP requests for geocoding tasks
type GeocodingHandler struct {
	tasks GeocodingTaskRunner
	log   *zap.Logger
}

// NewGeocodingHandler creates a new geocoding handler
func NewGeocodingHandler(tasks GeocodingTaskRunner, log *zap.Logger) *GeocodingHandler {
	return &GeocodingHandler{tasks: tasks, log: log}
}

// CreateTask starts a geocoding run in the background
// POST /api/admin/geocoding/tasks
func (h *GeocodingHandler) CreateTask(c *gin.Context) {
	createdBy := c.GetString(middleware.ContextEmail)
	if createdBy == "" {
		createdBy = "admin"
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), createdBy)
	if err != nil {
		respondError(c, h.log, err, "Error creating geocoding task")
		return
	}

	c.JSON(http.StatusAccepted, response.Response{Success: true, Data: task})
}

// GetTask retrieves a task by ID
// GET /api/admin/geocoding/tasks/:id
func (h *GeocodingHandler) GetTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "Error fetching geocoding task")
		return
	}

	response.Success(c, task)
}

// ListTasks retrieves all tasks
// GET /api/admin/geocoding/tasks
func (h *GeocodingHandler) ListTasks(c *gin.Context) {
	status := c.Query("status")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(c, h.log, err, "Error listing geocoding tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.GeocodingTask{}
	}

	response.Success(c, gin.H{
		"tasks":  tasks,
		"limit":  limit,
		"offset": offset,
	})
}

// CancelTask cancels a running task
// DELETE /api/admin/geocoding/tasks/:id
func (h *GeocodingHandler) CancelTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.tasks.CancelTask(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "Error cancelling geocoding task")
		return
	}

	response.With(c, http.StatusOK, "Task cancelled successfully", nil)
}
