package models

import "time"

// SOS alert status values
const (
	SOSStatusSent       = "sent"
	SOSStatusFailed     = "failed"
	SOSStatusNoContacts = "no_contacts"
)

// Location is a lat/lng pair sent by the mobile client
type Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// SOSRequest is the request body of POST /api/emergency/sos
type SOSRequest struct {
	Location *Location `json:"location"`
	Message  string    `json:"message"`
}

// LocationShareRequest is the request body of POST /api/emergency/send-location
type LocationShareRequest struct {
	Location *Location `json:"location"`
}

// SOSAlert is a persisted emergency alert
type SOSAlert struct {
	ID               string    `json:"sos_id"`
	UserID           string    `json:"user_id"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Message          string    `json:"message"`
	Status           string    `json:"status"`
	ContactsNotified int       `json:"contacts_notified"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"timestamp"`
}
