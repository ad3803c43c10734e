package herostore

import "errors"

var (
	// ErrNotFound is returned when a hero or blob does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a hero with the same name is already stored
	ErrDuplicateName = errors.New("hero was already in the database")
	// ErrAlreadyExists is returned when a conditional write finds the key taken
	ErrAlreadyExists = errors.New("blob already exists")
	// ErrSerialization is returned when a hero cannot be encoded or decoded
	ErrSerialization = errors.New("serialization error")
	// ErrStorageUnavailable is returned when the backing store call fails
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrIDExhausted is returned when no unused id could be allocated
	ErrIDExhausted = errors.New("no unused id available")
)
