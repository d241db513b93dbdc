package models

import "errors"

// Domain errors, mapped to HTTP status codes by the handlers.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream service failed")
)

// DomainError carries a client-facing message and unwraps to one of the sentinel errors
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

// Validation returns an ErrValidation with the given message
func Validation(msg string) error { return &DomainError{Kind: ErrValidation, Message: msg} }

// Conflict returns an ErrConflict with the given message
func Conflict(msg string) error { return &DomainError{Kind: ErrConflict, Message: msg} }

// NotFound returns an ErrNotFound with the given message
func NotFound(msg string) error { return &DomainError{Kind: ErrNotFound, Message: msg} }

// Unauthenticated returns an ErrUnauthenticated with the given message
func Unauthenticated(msg string) error { return &DomainError{Kind: ErrUnauthenticated, Message: msg} }

// Upstream returns an ErrUpstream with the given message
func Upstream(msg string) error { return &DomainError{Kind: ErrUpstream, Message: msg} }
