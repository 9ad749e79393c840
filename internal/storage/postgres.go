package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresStore keeps blobs in the file_blobs table.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, _ string, data []byte) (string, error) {
	blob := models.FileBlob{Key: uuid.NewString(), Data: data}
	if err := s.db.WithContext(ctx).Create(&blob).Error; err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return blob.Key, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob models.FileBlob
	err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load blob: %w", err)
	}
	return blob.Data, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&models.FileBlob{}, "key = ?", key).Error
}
