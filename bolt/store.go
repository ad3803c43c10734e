// Package bolt provides a blob container stored in a single bbolt database file.
// All blobs live in one bucket; every write runs in its own transaction, so
// create-only writes are atomic.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/sagarc03/herostore"
)

// DefaultBucket is the bucket used when none is configured.
const DefaultBucket = "heroes"

var errBucketMissing = errors.New("bucket missing")

// Store wraps a bbolt database holding one bucket of blobs.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// Open opens or creates the database at path and makes sure the bucket exists.
// The parent directory is created if it does not exist.
func Open(path, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("bolt: create directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: %w", err)
	}

	return &Store{db: db, bucket: []byte(bucket)}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// List returns all blobs in key order.
func (s *Store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]herostore.BlobItem, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return errBucketMissing
		}
		return b.ForEach(func(k, v []byte) error {
			items = append(items, herostore.BlobItem{Name: string(k), Size: int64(len(v))})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("bolt: list: %w", err)
	}

	return items, nil
}

// Read returns a copy of the blob. Returns herostore.ErrNotFound if it does not exist.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return errBucketMissing
		}
		v := b.Get([]byte(name))
		if v == nil {
			return herostore.ErrNotFound
		}
		// Values are only valid inside the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt: read %s: %w", name, err)
	}

	return data, nil
}

// Write stores payload under name inside a single update transaction.
func (s *Store) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !herostore.IsValidBlobName(name) {
		return fmt.Errorf("bolt: write %s: %w", name, herostore.ErrInvalidInput)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return errBucketMissing
		}
		if !overwrite && b.Get([]byte(name)) != nil {
			return herostore.ErrAlreadyExists
		}
		return b.Put([]byte(name), payload)
	})
	if err != nil {
		return fmt.Errorf("bolt: write %s: %w", name, err)
	}

	return nil
}

// Delete removes a blob. Returns herostore.ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return errBucketMissing
		}
		if b.Get([]byte(name)) == nil {
			return herostore.ErrNotFound
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("bolt: delete %s: %w", name, err)
	}

	return nil
}
