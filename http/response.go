package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sagarc03/herostore"
)

// UpdateResponse is the body returned by PUT /heroes.
type UpdateResponse struct {
	Updated bool `json:"updated"`
	ID      int  `json:"id"`
}

// DeleteResponse is the body returned by DELETE /heroes/{id}.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
	ID      int  `json:"id"`
}

// WriteJSON writes data as indented JSON.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		WriteText(w, http.StatusInternalServerError, err.Error())
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(append(body, '\n'))
	return err
}

// WriteText writes a plain-text body.
func WriteText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	if _, err := io.WriteString(w, message); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// StatusFor maps a service error to a conventional status code.
func StatusFor(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, herostore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, herostore.ErrDuplicateName), errors.Is(err, herostore.ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, herostore.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, herostore.ErrStorageUnavailable), errors.Is(err, herostore.ErrIDExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
