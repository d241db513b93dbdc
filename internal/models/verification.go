package models

import "time"

// Verification status values
const (
	VerificationPending      = "pending"
	VerificationApproved     = "approved"
	VerificationRejected     = "rejected"
	VerificationNotSubmitted = "not_submitted"
)

// Verification is one identity document submission. The image itself is never stored.
type Verification struct {
	ID            string    `json:"verification_id"`
	UserID        string    `json:"user_id"`
	ImageSHA256   string    `json:"-"`
	ImageSize     int       `json:"-"`
	ExtractedText string    `json:"-"`
	Status        string    `json:"verification_status"`
	CreatedAt     time.Time `json:"submitted_at"`
}

// VerificationRequest is the request body of POST /api/verify-image
type VerificationRequest struct {
	UserID    string `json:"user_id"`
	ImageData string `json:"image_data"`
}
