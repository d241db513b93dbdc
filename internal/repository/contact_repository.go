package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jengzang/safeguard-backend/internal/models"
)

var contactColumns = []string{"id", "user_id", "name", "phone", "relation", "created_at", "updated_at"}

// ContactRepository handles database operations for trusted contacts
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func contactInsert(c *models.TrustedContact) sq.InsertBuilder {
	return sq.Insert("trusted_contacts").
		Columns(contactColumns...).
		Values(c.ID, c.UserID, c.Name, c.Phone, c.Relation, toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
}

// Create inserts a trusted contact
func (r *ContactRepository) Create(ctx context.Context, contact *models.TrustedContact) error {
	query, args, err := contactInsert(contact).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build contact insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// ListByUser returns the user's contacts in creation order
func (r *ContactRepository) ListByUser(ctx context.Context, userID string) ([]models.TrustedContact, error) {
	query, args, err := sq.Select(contactColumns...).From("trusted_contacts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.TrustedContact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, nil
}

// GetByID returns a contact owned by userID
func (r *ContactRepository) GetByID(ctx context.Context, userID, id string) (*models.TrustedContact, error) {
	query, args, err := sq.Select(contactColumns...).From("trusted_contacts").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	c, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, models.NotFound("Contact not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// Update writes name, phone, relation and updated_at of an owned contact
func (r *ContactRepository) Update(ctx context.Context, contact *models.TrustedContact) error {
	query, args, err := sq.Update("trusted_contacts").
		Set("name", contact.Name).
		Set("phone", contact.Phone).
		Set("relation", contact.Relation).
		Set("updated_at", toMillis(contact.UpdatedAt)).
		Where(sq.Eq{"id": contact.ID, "user_id": contact.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build contact update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NotFound("Contact not found")
	}
	return nil
}

// Delete removes an owned contact
func (r *ContactRepository) Delete(ctx context.Context, userID, id string) error {
	query, args, err := sq.Delete("trusted_contacts").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build contact delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NotFound("Contact not found")
	}
	return nil
}

func scanContact(row rowScanner) (*models.TrustedContact, error) {
	var c models.TrustedContact
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Relation, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}
