package models

import "time"

// User is a registered app user
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AadharNumber string    `json:"aadhar_number"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated on registration responses only
	EmergencyContact *ContactInput `json:"emergency_contact,omitempty"`
}

// RegisterRequest is the request body of POST /api/register
type RegisterRequest struct {
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Password         string        `json:"password"`
	AadharNumber     string        `json:"aadhar_number"`
	EmergencyContact *ContactInput `json:"emergency_contact"`
}

// LoginRequest is the request body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
