package models

// PointType identifies the signal source of a heatmap point
type PointType string

const (
	PointTypeCrime PointType = "crime"
	PointTypePoll  PointType = "poll"
	PointTypeNews  PointType = "news"
)

// HeatmapPoint represents a single weighted point in the heatmap.
// It is recomputed on every request and never persisted.
type HeatmapPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Weight    float64   `json:"weight"` // 0-0.8, depends on Type
	Type      PointType `json:"type"`
	Location  string    `json:"location"`
	Timestamp string    `json:"timestamp"`
}
