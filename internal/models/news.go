package models

import "time"

// NewsRecord is a geocoded news mention of an incident
type NewsRecord struct {
	ID        string    `json:"id"`
	Headline  string    `json:"headline"`
	Location  string    `json:"location"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	SourceURL string    `json:"source_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsSubmission is the request body of POST /api/news
type NewsSubmission struct {
	Headline    string     `json:"headline" binding:"required"`
	Location    string     `json:"location" binding:"required"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	SourceURL   string     `json:"source_url"`
	PublishedAt *time.Time `json:"published_at"`
}
