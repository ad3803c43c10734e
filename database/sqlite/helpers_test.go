package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/database/sqlite"
	"github.com/stretchr/testify/assert"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestStore creates a blob container with a unique table name for test isolation
func setupTestStore(t *testing.T) (herostore.BlobStore, func()) {
	t.Helper()

	ctx := context.Background()

	tableName := fmt.Sprintf("blobs_%s", getRandomString(t))
	tables := herostore.Tables{Blobs: tableName}

	db, err := sqlite.Connect(ctx, ":memory:", tables)
	assert.NoError(t, err, "failed to connect")

	err = db.Migrate(ctx)
	assert.NoError(t, err, "failed to migrate")

	store := db.GetStore()

	cleanup := func() {
		_ = db.Close()
	}

	return store, cleanup
}
