package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/jengzang/safeguard-backend/internal/database"
	"github.com/jengzang/safeguard-backend/internal/models"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "aadhar_number", "is_verified", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithContact inserts the user and its first trusted contact in one transaction
func (r *UserRepository) CreateWithContact(ctx context.Context, user *models.User, contact *models.TrustedContact) error {
	userQuery, userArgs, err := sq.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID, user.Name, user.Email, user.PasswordHash, user.AadharNumber,
			boolToInt(user.IsVerified), toMillis(user.CreatedAt), toMillis(user.UpdatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	var contactQuery string
	var contactArgs []interface{}
	if contact != nil {
		contactQuery, contactArgs, err = contactInsert(contact).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build contact insert: %w", err)
		}
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, userQuery, userArgs...); err != nil {
			if isUniqueViolation(err) {
				return userConflict(err)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if contact == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, contactQuery, contactArgs...); err != nil {
			return fmt.Errorf("failed to create emergency contact: %w", err)
		}
		return nil
	})
}

// userConflict names the column a concurrent registration collided on
func userConflict(err error) error {
	if strings.Contains(err.Error(), "users.aadhar_number") {
		return models.Conflict("User with this Aadhar number already exists")
	}
	return models.Conflict("User with this email already exists")
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

// ExistsByEmail reports whether the email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, sq.Eq{"email": email})
}

// ExistsByAadhar reports whether the Aadhar number is already registered
func (r *UserRepository) ExistsByAadhar(ctx context.Context, aadhar string) (bool, error) {
	return r.exists(ctx, sq.Eq{"aadhar_number": aadhar})
}

// SetVerified updates the user's verification flag
func (r *UserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	query, args, err := sq.Update("users").
		Set("is_verified", boolToInt(verified)).
		Set("updated_at", toMillisNow()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NotFound("User not found")
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where sq.Eq) (*models.User, error) {
	query, args, err := sq.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var u models.User
	var verified int
	var createdAt, updatedAt int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.AadharNumber, &verified, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.IsVerified = verified != 0
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return &u, nil
}

func (r *UserRepository) exists(ctx context.Context, where sq.Eq) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build user count: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}
