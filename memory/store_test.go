package memory_test

import (
	"context"
	"testing"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	payload := []byte(`{"id":42,"name":"Thor"}`)
	require.NoError(t, store.Write(ctx, "42.json", payload, false))

	got, err := store.Read(ctx, "42.json")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Mutating the caller's slices must not reach the stored blob
	payload[0] = 'X'
	got[1] = 'X'
	again, err := store.Read(ctx, "42.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"name":"Thor"}`, string(again))
}

func TestStore_Write_CreateOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Write(ctx, "1.json", []byte(`{"id":1,"name":"Thor"}`), false))

	err := store.Write(ctx, "1.json", []byte(`{"id":1,"name":"Odin"}`), false)
	assert.ErrorIs(t, err, herostore.ErrAlreadyExists)

	require.NoError(t, store.Write(ctx, "1.json", []byte(`{"id":1,"name":"Odin"}`), true))
	got, err := store.Read(ctx, "1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Odin"}`, string(got))
}

func TestStore_Write_InvalidName(t *testing.T) {
	t.Parallel()

	err := memory.NewStore().Write(context.Background(), "a/b.json", []byte(`{}`), true)
	assert.ErrorIs(t, err, herostore.ErrInvalidInput)
}

func TestStore_List_SortedByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	for _, name := range []string{"30.json", "10.json", "20.json"} {
		require.NoError(t, store.Write(ctx, name, []byte(`{}`), false))
	}

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []herostore.BlobItem{
		{Name: "10.json", Size: 2},
		{Name: "20.json", Size: 2},
		{Name: "30.json", Size: 2},
	}, items)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Write(ctx, "7.json", []byte(`{}`), false))
	require.NoError(t, store.Delete(ctx, "7.json"))

	_, err := store.Read(ctx, "7.json")
	assert.ErrorIs(t, err, herostore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "7.json"), herostore.ErrNotFound)
}

func TestStore_ContextCanceled(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Read(ctx, "1.json")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Write(ctx, "1.json", nil, true), context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, "1.json"), context.Canceled)
}
