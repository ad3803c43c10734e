// Package memory provides an in-memory blob container for herostore.
// It is meant for tests and throwaway servers; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/sagarc03/herostore"
)

// Store keeps blobs in a map guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// List returns all blobs sorted by name.
func (s *Store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]herostore.BlobItem, 0, len(s.blobs))
	for name, data := range s.blobs {
		items = append(items, herostore.BlobItem{Name: name, Size: int64(len(data))})
	}
	slices.SortFunc(items, func(a, b herostore.BlobItem) int {
		return strings.Compare(a.Name, b.Name)
	})

	return items, nil
}

// Read returns a copy of the blob. Returns herostore.ErrNotFound if it does not exist.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, found := s.blobs[name]
	if !found {
		return nil, fmt.Errorf("read %s: %w", name, herostore.ErrNotFound)
	}
	return slices.Clone(data), nil
}

// Write stores a copy of payload.
func (s *Store) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !herostore.IsValidBlobName(name) {
		return fmt.Errorf("write %s: %w", name, herostore.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.blobs[name]; found && !overwrite {
		return fmt.Errorf("write %s: %w", name, herostore.ErrAlreadyExists)
	}
	s.blobs[name] = slices.Clone(payload)
	return nil
}

// Delete removes a blob. Returns herostore.ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.blobs[name]; !found {
		return fmt.Errorf("delete %s: %w", name, herostore.ErrNotFound)
	}
	delete(s.blobs, name)
	return nil
}
