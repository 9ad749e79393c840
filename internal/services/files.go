package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
)

// Upload is a file received from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// File is a stored file ready to be streamed back.
type File struct {
	models.FileMeta
	Data []byte
}

func storeUpload(ctx context.Context, blobs storage.BlobStore, up *Upload, now time.Time) (models.FileMeta, error) {
	contentType := up.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(up.Data)
	}
	key, err := blobs.Put(ctx, up.Filename, up.Data)
	if err != nil {
		return models.FileMeta{}, fmt.Errorf("store %s: %w", up.Filename, err)
	}
	return models.FileMeta{
		Filename:    up.Filename,
		ContentType: contentType,
		Size:        int64(len(up.Data)),
		BlobKey:     key,
		UploadedAt:  &now,
	}, nil
}

func loadFile(ctx context.Context, blobs storage.BlobStore, meta models.FileMeta) (*File, error) {
	if !meta.Present() {
		return nil, ErrFileNotFound
	}
	data, err := blobs.Get(ctx, meta.BlobKey)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &File{FileMeta: meta, Data: data}, nil
}

// discardBlob removes a replaced or orphaned blob. Failures only leak storage.
func discardBlob(ctx context.Context, blobs storage.BlobStore, meta models.FileMeta) {
	if !meta.Present() {
		return
	}
	if err := blobs.Delete(ctx, meta.BlobKey); err != nil {
		slog.Warn("blob delete failed", "key", meta.BlobKey, "error", err)
	}
}
