// Package s3 stores hero blobs in an S3-compatible bucket (MinIO, AWS, ArvanCloud).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/credentials"
)

// DefaultBucket is the bucket heroes are stored in unless configured otherwise.
const DefaultBucket = "heroes"

// Config holds the settings for an S3-compatible endpoint.
type Config struct {
	Endpoint     string // host[:port], without scheme
	Bucket       string // Bucket name (default: heroes)
	Region       string
	UseSSL       bool
	CreateBucket bool // Create the bucket at startup if it does not exist
	Credentials  credentials.KeyPair
}

// Store implements herostore.BlobStore on top of a bucket.
//
// S3 has no create-only put, so Write with overwrite false checks for the
// object first. Two writers racing on the same new key can both succeed.
type Store struct {
	client *minio.Client
	bucket string
}

// New creates a MinIO client for the endpoint and, when asked to, makes
// sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Credentials.IsComplete() {
		return nil, fmt.Errorf("new s3 store: %w", credentials.ErrMissingCredentials)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.Credentials.AccountName, cfg.Credentials.AccountKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("new s3 store: create minio client: %w", err)
	}

	store := NewStore(client, cfg.Bucket)

	if cfg.CreateBucket {
		if err := store.ensureBucket(ctx, cfg.Region); err != nil {
			return nil, fmt.Errorf("new s3 store: %w", err)
		}
	}

	return store, nil
}

// NewStore wraps an existing client.
func NewStore(client *minio.Client, bucket string) *Store {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Store{client: client, bucket: bucket}
}

func (s *Store) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	slog.Info("created bucket", "bucket", s.bucket)

	return nil
}

func (s *Store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	items := make([]herostore.BlobItem, 0)

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list: %w", mapError(obj.Err))
		}
		items = append(items, herostore.BlobItem{Name: obj.Key, Size: obj.Size})
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	return items, nil
}

func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, mapError(err))
	}
	defer func() { _ = obj.Close() }()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, mapError(err))
	}

	return data, nil
}

func (s *Store) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	if !herostore.IsValidBlobName(name) {
		return fmt.Errorf("write %s: %w", name, herostore.ErrInvalidInput)
	}

	if !overwrite {
		exists, err := s.exists(ctx, name)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if exists {
			return fmt.Errorf("write %s: %w", name, herostore.ErrAlreadyExists)
		}
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", name, mapError(err))
	}

	return nil
}

// Delete stats the object first: RemoveObject succeeds on missing keys.
func (s *Store) Delete(ctx context.Context, name string) error {
	exists, err := s.exists(ctx, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("delete %s: %w", name, herostore.ErrNotFound)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", name, mapError(err))
	}

	return nil
}

func (s *Store) exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, mapError(err)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket")
}

// mapError translates S3 error responses into herostore sentinels.
func mapError(err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %w", herostore.ErrNotFound, err)
	}

	resp := minio.ToErrorResponse(err)
	if resp.Code != "" {
		return fmt.Errorf("%w: %s: %w", herostore.ErrStorageUnavailable, resp.Code, err)
	}

	return err
}
