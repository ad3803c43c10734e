package http

import "fmt"

// StatusMode selects how failures are reported to clients.
type StatusMode string

const (
	// StatusCompat keeps the status codes existing clients depend on:
	// 418 for read and parse failures, 200 with a text body for failed creates.
	StatusCompat StatusMode = "compat"
	// StatusStrict reports failures with conventional codes (400, 404, 409, 503).
	StatusStrict StatusMode = "strict"
)

func (m StatusMode) IsValid() bool {
	switch m {
	case StatusCompat, StatusStrict:
		return true
	default:
		return false
	}
}

func ParseStatusMode(s string) (StatusMode, error) {
	if s == "" {
		return StatusCompat, nil
	}
	mode := StatusMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid status mode: %s (valid modes: compat, strict)", s)
	}
	return mode, nil
}
