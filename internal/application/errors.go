package application

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrUserNotFound           = errors.New("user not found")
	ErrEventNotFound          = errors.New("event not found")
	ErrInvalidEvent           = errors.New("invalid event")
	ErrInvalidSchedule        = errors.New("end date must be after start date")
)

// User-visible error strings recorded in store state.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailInUse         = "Email already in use"
	MsgUnexpected         = "An unexpected error occurred"
	MsgLoadEvents         = "Failed to load events"
	MsgLoadMessages       = "Failed to load chat messages"
)
