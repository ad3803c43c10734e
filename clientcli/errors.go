package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// Errors for input validation.
var (
	ErrNoIDs      = errors.New("no ids provided")
	ErrEmptyName  = errors.New("hero name is required")
	ErrUnexpected = errors.New("unexpected response")
)
