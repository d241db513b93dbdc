package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/safeguard-backend/internal/models"
)

const geocodingTaskColumns = `
	id, status, input_file, output_file, total_points, processed_points, failed_points,
	start_time, end_time, error_message, created_by, created_at, updated_at`

// GeocodingRepository handles database operations for geocoding tasks
type GeocodingRepository struct {
	db *sql.DB
}

// NewGeocodingRepository creates a new geocoding repository
func NewGeocodingRepository(db *sql.DB) *GeocodingRepository {
	return &GeocodingRepository{db: db}
}

const geocodingTaskInsertColumns = `
	status, input_file, output_file, total_points, processed_points, failed_points,
	start_time, end_time, error_message, created_by, created_at, updated_at`

func geocodingTaskInsertArgs(task *models.GeocodingTask) []interface{} {
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt

	return []interface{}{
		task.Status,
		task.InputFile,
		task.OutputFile,
		task.TotalPoints,
		task.ProcessedPoints,
		task.FailedPoints,
		nullableMillis(task.StartTime),
		nullableMillis(task.EndTime),
		nullableString(task.ErrorMessage),
		task.CreatedBy,
		toMillis(task.CreatedAt),
		toMillis(task.UpdatedAt),
	}
}

// Create creates a new geocoding task
func (r *GeocodingRepository) Create(ctx context.Context, task *models.GeocodingTask) error {
	query := `INSERT INTO geocoding_tasks (` + geocodingTaskInsertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, geocodingTaskInsertArgs(task)...)
	if err != nil {
		return fmt.Errorf("failed to create geocoding task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = int(id)
	return nil
}

// CreateIfIdle creates the task only when no pending or running task exists.
// The check and the insert are one statement, so concurrent callers cannot both win.
func (r *GeocodingRepository) CreateIfIdle(ctx context.Context, task *models.GeocodingTask) error {
	query := `INSERT INTO geocoding_tasks (` + geocodingTaskInsertColumns + `)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM geocoding_tasks WHERE status IN (?, ?))`

	args := append(geocodingTaskInsertArgs(task), models.TaskStatusPending, models.TaskStatusRunning)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create geocoding task: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check geocoding task insert: %w", err)
	}
	if n == 0 {
		return models.Conflict("A geocoding task is already running")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = int(id)
	return nil
}

// GetByID retrieves a geocoding task by ID
func (r *GeocodingRepository) GetByID(ctx context.Context, id int) (*models.GeocodingTask, error) {
	query := `SELECT ` + geocodingTaskColumns + ` FROM geocoding_tasks WHERE id = ?`

	task, err := scanGeocodingTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.NotFound(fmt.Sprintf("geocoding task not found: %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get geocoding task: %w", err)
	}

	return task, nil
}

// List retrieves geocoding tasks with optional status filter, newest first
func (r *GeocodingRepository) List(ctx context.Context, status string, limit int, offset int) ([]*models.GeocodingTask, error) {
	query := `SELECT ` + geocodingTaskColumns + ` FROM geocoding_tasks`

	args := []interface{}{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list geocoding tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.GeocodingTask{}
	for rows.Next() {
		task, err := scanGeocodingTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geocoding task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate geocoding tasks: %w", err)
	}

	return tasks, nil
}

// SetTotal records how many locations the task will process
func (r *GeocodingRepository) SetTotal(ctx context.Context, id int, total int) error {
	query := `UPDATE geocoding_tasks SET total_points = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, total, toMillis(time.Now()), id); err != nil {
		return fmt.Errorf("failed to set task total: %w", err)
	}
	return nil
}

// UpdateProgress updates the progress of a geocoding task
func (r *GeocodingRepository) UpdateProgress(ctx context.Context, id int, processedPoints int, failedPoints int) error {
	query := `
		UPDATE geocoding_tasks
		SET processed_points = ?, failed_points = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, processedPoints, failedPoints, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}

	return nil
}

// MarkAsRunning marks a task as running
func (r *GeocodingRepository) MarkAsRunning(ctx context.Context, id int) error {
	now := toMillis(time.Now())
	query := `
		UPDATE geocoding_tasks
		SET status = ?, start_time = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, models.TaskStatusRunning, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	return nil
}

// MarkAsCompleted marks a task as completed
func (r *GeocodingRepository) MarkAsCompleted(ctx context.Context, id int) error {
	now := toMillis(time.Now())
	query := `
		UPDATE geocoding_tasks
		SET status = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, models.TaskStatusCompleted, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	return nil
}

// MarkAsFailed marks a task as failed with an error message
func (r *GeocodingRepository) MarkAsFailed(ctx context.Context, id int, errorMessage string) error {
	now := toMillis(time.Now())
	query := `
		UPDATE geocoding_tasks
		SET status = ?, end_time = ?, updated_at = ?, error_message = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, models.TaskStatusFailed, now, now, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark task as failed: %w", err)
	}

	return nil
}

// FailActive marks every pending or running task as failed and returns how many it touched
func (r *GeocodingRepository) FailActive(ctx context.Context, errorMessage string) (int, error) {
	now := toMillis(time.Now())
	query := `
		UPDATE geocoding_tasks
		SET status = ?, end_time = ?, updated_at = ?, error_message = ?
		WHERE status IN (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		models.TaskStatusFailed, now, now, errorMessage,
		models.TaskStatusPending, models.TaskStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to fail active tasks: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count failed tasks: %w", err)
	}
	return int(n), nil
}

func scanGeocodingTask(row rowScanner) (*models.GeocodingTask, error) {
	task := &models.GeocodingTask{}
	var startTime, endTime sql.NullInt64
	var errorMessage sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&task.ID,
		&task.Status,
		&task.InputFile,
		&task.OutputFile,
		&task.TotalPoints,
		&task.ProcessedPoints,
		&task.FailedPoints,
		&startTime,
		&endTime,
		&errorMessage,
		&task.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.StartTime = timePtr(startTime)
	task.EndTime = timePtr(endTime)
	task.ErrorMessage = stringPtr(errorMessage)
	task.CreatedAt = fromMillis(createdAt)
	task.UpdatedAt = fromMillis(updatedAt)
	return task, nil
}
