// Package azureblob stores hero blobs in an Azure Blob Storage container.
package azureblob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/credentials"
)

// DefaultContainer is the container heroes are stored in unless configured otherwise.
const DefaultContainer = "heroes"

const endpointFormat = "https://%s.blob.core.windows.net"

// Config holds the settings for connecting to a storage account.
type Config struct {
	Endpoint        string // Service URL; empty means the public endpoint for the account
	Container       string // Container name (default: heroes)
	CreateContainer bool   // Create the container at startup if it does not exist
	Credentials     credentials.KeyPair
}

// Store implements herostore.BlobStore on top of a blob container.
type Store struct {
	client    *azblob.Client
	container string
}

// New creates a shared-key client for the account and, when asked to,
// makes sure the container exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if !cfg.Credentials.IsComplete() {
		return nil, fmt.Errorf("new azure blob store: %w", credentials.ErrMissingCredentials)
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.Credentials.AccountName, cfg.Credentials.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("new azure blob store: shared key: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(endpointFormat, cfg.Credentials.AccountName)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("new azure blob store: client: %w", err)
	}

	store := NewStore(client, cfg.Container)

	if cfg.CreateContainer {
		if err := store.ensureContainer(ctx); err != nil {
			return nil, fmt.Errorf("new azure blob store: %w", err)
		}
	}

	return store, nil
}

// NewStore wraps an existing client.
func NewStore(client *azblob.Client, container string) *Store {
	if container == "" {
		container = DefaultContainer
	}
	return &Store{client: client, container: container}
}

func (s *Store) ensureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err == nil {
		slog.Info("created blob container", "container", s.container)
		return nil
	}
	if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	return fmt.Errorf("create container %q: %w", s.container, err)
}

// List enumerates every blob in the container, following continuation pages.
func (s *Store) List(ctx context.Context) ([]herostore.BlobItem, error) {
	items := make([]herostore.BlobItem, 0)

	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list: %w", mapError(err))
		}

		for _, b := range page.Segment.BlobItems {
			if b == nil || b.Name == nil {
				continue
			}
			item := herostore.BlobItem{Name: *b.Name}
			if b.Properties != nil && b.Properties.ContentLength != nil {
				item.Size = *b.Properties.ContentLength
			}
			items = append(items, item)
		}
	}

	return items, nil
}

func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, mapError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

// Write uploads payload as a block blob. When overwrite is false the upload
// carries If-None-Match: * so the service rejects it if the blob exists.
func (s *Store) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	if !herostore.IsValidBlobName(name) {
		return fmt.Errorf("write %s: %w", name, herostore.ErrInvalidInput)
	}

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType(name)),
		},
	}
	if !overwrite {
		opts.AccessConditions = &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{
				IfNoneMatch: to.Ptr(azcore.ETagAny),
			},
		}
	}

	_, err := s.client.UploadBuffer(ctx, s.container, name, payload, opts)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, mapError(err))
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, name, nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, mapError(err))
	}
	return nil
}

// mapError translates service error codes into herostore sentinels.
func mapError(err error) error {
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return fmt.Errorf("%w: %w", herostore.ErrNotFound, err)
	case bloberror.HasCode(err, bloberror.BlobAlreadyExists, bloberror.ConditionNotMet):
		return fmt.Errorf("%w: %w", herostore.ErrAlreadyExists, err)
	case bloberror.HasCode(err, bloberror.ContainerNotFound):
		return fmt.Errorf("%w: container missing: %w", herostore.ErrStorageUnavailable, err)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return fmt.Errorf("%w: %s: %w", herostore.ErrStorageUnavailable, respErr.ErrorCode, err)
	}

	return err
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".json") {
		return "application/json"
	}
	return "application/octet-stream"
}
