package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jengzang/safeguard-backend/internal/models"
)

var sosColumns = []string{
	"id", "user_id", "latitude", "longitude", "message", "status",
	"contacts_notified", "error_message", "created_at",
}

// SOSRepository persists emergency alerts
type SOSRepository struct {
	db *sql.DB
}

// NewSOSRepository creates a new SOS repository
func NewSOSRepository(db *sql.DB) *SOSRepository {
	return &SOSRepository{db: db}
}

// Create inserts an SOS alert
func (r *SOSRepository) Create(ctx context.Context, alert *models.SOSAlert) error {
	query, args, err := sq.Insert("sos_alerts").
		Columns(sosColumns...).
		Values(
			alert.ID, alert.UserID, alert.Latitude, alert.Longitude, alert.Message, alert.Status,
			alert.ContactsNotified, nullableString(alert.ErrorMessage), toMillis(alert.CreatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sos insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create sos alert: %w", err)
	}
	return nil
}

// ListByUser returns the user's alerts, newest first
func (r *SOSRepository) ListByUser(ctx context.Context, userID string, limit uint64) ([]models.SOSAlert, error) {
	query, args, err := sq.Select(sosColumns...).From("sos_alerts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sos query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sos alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.SOSAlert{}
	for rows.Next() {
		var a models.SOSAlert
		var errMsg sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Latitude, &a.Longitude, &a.Message, &a.Status,
			&a.ContactsNotified, &errMsg, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sos alert: %w", err)
		}
		a.ErrorMessage = stringPtr(errMsg)
		a.CreatedAt = fromMillis(createdAt)
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sos alerts: %w", err)
	}

	return alerts, nil
}
