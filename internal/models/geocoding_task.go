package models

import "time"

// GeocodingTask tracks one run of the crime geocoding batch job
type GeocodingTask struct {
	ID              int        `json:"id"`
	Status          string     `json:"status"` // pending, running, completed, failed
	InputFile       string     `json:"input_file"`
	OutputFile      string     `json:"output_file"`
	TotalPoints     int        `json:"total_points"`
	ProcessedPoints int        `json:"processed_points"`
	FailedPoints    int        `json:"failed_points"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	CreatedBy       string     `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// IsTerminal returns true if the task is in a terminal state
func (t *GeocodingTask) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// Progress returns the completion percentage (0-100)
func (t *GeocodingTask) Progress() float64 {
	if t.TotalPoints == 0 {
		return 0
	}
	return float64(t.ProcessedPoints) / float64(t.TotalPoints) * 100
}
