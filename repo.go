package herostore

import "context"

// BlobStore defines the interface for the flat blob container heroes live in.
// Implementations can use memory, a local directory, an embedded database,
// SQL tables, Azure Blob Storage, S3 or any other key-value blob store.
//
// All methods accept a context for cancellation and timeout control.
// No transactional guarantee is assumed across keys.
type BlobStore interface {
	// List returns every blob currently in the container.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []BlobItem: One entry per blob, in the store's enumeration order
	//   - error: Any storage or I/O error
	//
	// Implementations should return an empty slice (not nil) when the
	// container is empty and must hide their own temporary objects.
	List(ctx context.Context) ([]BlobItem, error)

	// Read returns the full payload of a blob.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - name: The blob name
	//
	// Returns:
	//   - []byte: The payload
	//   - error: ErrNotFound if the blob doesn't exist, or other storage errors
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores payload under name.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - name: The blob name
	//   - payload: The full content to store
	//   - overwrite: When false the write must fail if the blob exists
	//
	// Returns:
	//   - error: ErrAlreadyExists when overwrite is false and the blob exists,
	//     or other storage errors
	//
	// The existence check and the write must be a single atomic step at the
	// store whenever the store supports it.
	Write(ctx context.Context, name string, payload []byte, overwrite bool) error

	// Delete removes a blob.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - name: The blob name
	//
	// Returns:
	//   - error: ErrNotFound if the blob doesn't exist, or other storage errors
	Delete(ctx context.Context, name string) error
}
