// Package filesystem provides a directory-backed blob container for herostore.
// Each blob is one file directly under the root directory. Writes go through
// a temp file that is then renamed (overwrite) or hard-linked (create only),
// so readers never observe a partially written hero.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/herostore"
)

const tmpPrefix = ".t"

// Store provides file system blob operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// List returns every regular file in the root directory.
// Subdirectories and temp files are skipped.
func (s *Store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	items := make([]herostore.BlobItem, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			// Deleted between ReadDir and Info
			if errors.Is(infoErr, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), infoErr)
		}

		items = append(items, herostore.BlobItem{Name: entry.Name(), Size: info.Size()})
	}

	return items, nil
}

// Read returns the file content. Returns herostore.ErrNotFound if the file does not exist.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.root.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, herostore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

// Write stores payload under name. The payload is first written and synced
// to a temp file. With overwrite the temp file is renamed over name;
// without it the temp file is hard-linked to name, which fails atomically
// when name already exists.
func (s *Store) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !herostore.IsValidBlobName(name) {
		return fmt.Errorf("write %s: %w", name, herostore.ErrInvalidInput)
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return fmt.Errorf("could not open temp file: %w", createErr)
	}

	renamed := false
	defer func() {
		if renamed {
			return
		}
		if rmErr := s.root.Remove(tmpFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove tmp file", "file", tmpFile, "err", rmErr)
		}
	}()

	_, writeErr := t.Write(payload)
	if writeErr == nil {
		writeErr = t.Sync()
	}
	if closeErr := t.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fmt.Errorf("could not write temp file: %w", writeErr)
	}

	if overwrite {
		if renameErr := s.root.Rename(tmpFile, name); renameErr != nil {
			return fmt.Errorf("failed to rename file: %w", renameErr)
		}
		renamed = true
		return nil
	}

	if linkErr := s.root.Link(tmpFile, name); linkErr != nil {
		if errors.Is(linkErr, os.ErrExist) {
			return fmt.Errorf("write %s: %w", name, herostore.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to link file: %w", linkErr)
	}

	return nil
}

// Delete removes a file. Returns herostore.ErrNotFound if the file does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return herostore.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

func tmpFileName() string {
	return fmt.Sprintf("%s%s", tmpPrefix, uuid.New().String())
}
