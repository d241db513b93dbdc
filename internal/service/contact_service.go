package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/safeguard-backend/internal/models"
)

// ContactService manages a user's trusted contacts
type ContactService struct {
	contacts ContactStore
	now      func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(contacts ContactStore) *ContactService {
	return &ContactService{contacts: contacts, now: time.Now}
}

// List returns the user's contacts
func (s *ContactService) List(ctx context.Context, userID string) ([]models.TrustedContact, error) {
	return s.contacts.ListByUser(ctx, userID)
}

// Add creates a contact for the user
func (s *ContactService) Add(ctx context.Context, userID string, in models.ContactInput) (*models.TrustedContact, error) {
	for _, f := range []struct{ name, value string }{
		{"name", in.Name}, {"phone", in.Phone}, {"relation", in.Relation},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, models.Validation(fmt.Sprintf("Contact %s is required", f.name))
		}
	}

	now := s.now().UTC()
	contact := &models.TrustedContact{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Relation:  strings.TrimSpace(in.Relation),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Update applies a partial update; absent fields keep their value
func (s *ContactService) Update(ctx context.Context, userID, id string, in models.ContactUpdate) (*models.TrustedContact, error) {
	if in.Name == nil && in.Phone == nil && in.Relation == nil {
		return nil, models.Validation("Contact data is required")
	}

	contact, err := s.contacts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		contact.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		contact.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Relation != nil && strings.TrimSpace(*in.Relation) != "" {
		contact.Relation = strings.TrimSpace(*in.Relation)
	}
	contact.UpdatedAt = s.now().UTC()

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete removes one of the user's contacts
func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	return s.contacts.Delete(ctx, userID, id)
}
