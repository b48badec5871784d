package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("resource already exists")
	ErrStore                  = errors.New("data store failure")

	// Login errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUser        = errors.New("user record lacks an identity")
)
