package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// HeatmapAggregator builds the current heatmap
type HeatmapAggregator interface {
	Aggregate(ctx context.Context, now time.Time) ([]models.HeatmapPoint, error)
}

// HeatmapHandler serves the risk heatmap
type HeatmapHandler struct {
	aggregator HeatmapAggregator
	log        *zap.Logger
	now        func() time.Time
}

// NewHeatmapHandler creates a new heatmap handler
func NewHeatmapHandler(aggregator HeatmapAggregator, log *zap.Logger) *HeatmapHandler {
	return &HeatmapHandler{aggregator: aggregator, log: log, now: time.Now}
}

// GetHeatmap returns all weighted points
// GET /api/heatmap
func (h *HeatmapHandler) GetHeatmap(c *gin.Context) {
	points, err := h.aggregator.Aggregate(c.Request.Context(), h.now())
	if err != nil {
		h.log.Error("Heatmap aggregation failed", zap.Error(err))
		response.InternalError(c, "Error fetching heatmap data: "+err.Error())
		return
	}
	if points == nil {
		points = []models.HeatmapPoint{}
	}

	response.Success(c, points)
}
