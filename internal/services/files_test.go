package services

import (
	"context"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndLoadUpload(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	meta, err := storeUpload(ctx, blobs, &Upload{Filename: "notes.txt", Data: []byte("hello")}, now)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", meta.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", meta.ContentType)
	assert.Equal(t, int64(5), meta.Size)
	assert.Equal(t, now, *meta.UploadedAt)

	f, err := loadFile(ctx, blobs, meta)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(f.Data))

	discardBlob(ctx, blobs, meta)
	_, err = loadFile(ctx, blobs, meta)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFileMissingMeta(t *testing.T) {
	_, err := loadFile(context.Background(), storage.NewMemoryStore(), models.FileMeta{})
	assert.ErrorIs(t, err, ErrFileNotFound)
}
