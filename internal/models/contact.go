package models

import "time"

// TrustedContact is a person notified on SOS and location sharing
type TrustedContact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Relation  string    `json:"relation"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactInput is the request body for creating a contact
type ContactInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// ContactUpdate is a partial update; nil fields keep their value
type ContactUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Relation *string `json:"relation"`
}
