package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	var store BlobStore = NewMemoryStore()

	key, err := store.Put(ctx, "report.pdf", []byte("%PDF"))
	require.NoError(t, err)

	data, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestMemoryStoreCopiesInput(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	buf := []byte("abc")
	key, _ := store.Put(ctx, "", buf)
	buf[0] = 'x'

	data, _ := store.Get(ctx, key)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, 1, store.Len())
}

func TestGridFSStoreRejectsMalformedKey(t *testing.T) {
	s := &GridFSStore{}
	_, err := s.Get(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.NoError(t, s.Delete(context.Background(), "not-an-object-id"))
}
