package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jengzang/safeguard-backend/internal/models"
)

var verificationColumns = []string{
	"id", "user_id", "image_sha256", "image_size", "extracted_text", "status", "created_at",
}

// VerificationRepository persists identity document submissions
type VerificationRepository struct {
	db *sql.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create inserts a verification record
func (r *VerificationRepository) Create(ctx context.Context, v *models.Verification) error {
	query, args, err := sq.Insert("verifications").
		Columns(verificationColumns...).
		Values(v.ID, v.UserID, v.ImageSHA256, v.ImageSize, v.ExtractedText, v.Status, toMillis(v.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build verification insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}
	return nil
}

// LatestByUser returns the most recent submission of the user
func (r *VerificationRepository) LatestByUser(ctx context.Context, userID string) (*models.Verification, error) {
	query, args, err := sq.Select(verificationColumns...).From("verifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "rowid DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build verification query: %w", err)
	}

	var v models.Verification
	var createdAt int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.UserID, &v.ImageSHA256, &v.ImageSize, &v.ExtractedText, &v.Status, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NotFound("Verification not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}

	v.CreatedAt = fromMillis(createdAt)
	return &v, nil
}
