package service

import (
	"context"
	"time"

	"github.com/jengzang/safeguard-backend/internal/geocoder"
	"github.com/jengzang/safeguard-backend/internal/models"
)

// UserStore persists users
type UserStore interface {
	CreateWithContact(ctx context.Context, user *models.User, contact *models.TrustedContact) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByAadhar(ctx context.Context, aadhar string) (bool, error)
	SetVerified(ctx context.Context, id string, verified bool) error
}

// ContactStore persists trusted contacts
type ContactStore interface {
	Create(ctx context.Context, contact *models.TrustedContact) error
	ListByUser(ctx context.Context, userID string) ([]models.TrustedContact, error)
	GetByID(ctx context.Context, userID, id string) (*models.TrustedContact, error)
	Update(ctx context.Context, contact *models.TrustedContact) error
	Delete(ctx context.Context, userID, id string) error
}

// SOSStore persists emergency alerts
type SOSStore interface {
	Create(ctx context.Context, alert *models.SOSAlert) error
	ListByUser(ctx context.Context, userID string, limit uint64) ([]models.SOSAlert, error)
}

// PollStore persists safety polls
type PollStore interface {
	Create(ctx context.Context, poll *models.PollRecord) error
	AddVote(ctx context.Context, id string, isSafe bool, comment string, now time.Time) error
	GetByID(ctx context.Context, id string) (*models.PollRecord, error)
	FindLatestInCell(ctx context.Context, cellToken string, since time.Time) (*models.PollRecord, error)
	List(ctx context.Context) ([]models.PollRecord, error)
}

// NewsStore persists news mentions
type NewsStore interface {
	Create(ctx context.Context, news *models.NewsRecord) error
	NewsSince(ctx context.Context, since time.Time) ([]models.NewsRecord, error)
}

// VerificationStore persists identity submissions
type VerificationStore interface {
	Create(ctx context.Context, v *models.Verification) error
	LatestByUser(ctx context.Context, userID string) (*models.Verification, error)
}

// GeocodingTaskStore tracks geocoding job runs
type GeocodingTaskStore interface {
	CreateIfIdle(ctx context.Context, task *models.GeocodingTask) error
	GetByID(ctx context.Context, id int) (*models.GeocodingTask, error)
	List(ctx context.Context, status string, limit int, offset int) ([]*models.GeocodingTask, error)
	SetTotal(ctx context.Context, id int, total int) error
	UpdateProgress(ctx context.Context, id int, processed int, failed int) error
	MarkAsRunning(ctx context.Context, id int) error
	MarkAsCompleted(ctx context.Context, id int) error
	MarkAsFailed(ctx context.Context, id int, errorMessage string) error
	FailActive(ctx context.Context, errorMessage string) (int, error)
}

// SMSSender delivers one message to many numbers
type SMSSender interface {
	Send(ctx context.Context, numbers []string, message string) error
}

// Geocoder resolves a locality name
type Geocoder interface {
	Geocode(ctx context.Context, locality string) (*geocoder.Result, error)
}

// TextExtractor runs OCR on an image
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}
