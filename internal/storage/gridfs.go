package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// GridFSStore keeps blobs in a MongoDB GridFS bucket. Keys are the hex
// ObjectIDs of the stored files.
type GridFSStore struct {
	client *mongo.Client
	bucket *mongo.GridFSBucket
}

// NewGridFSStore connects to uri and pings the primary before returning.
func NewGridFSStore(ctx context.Context, uri, database string) (*GridFSStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	slog.Info("gridfs blob store connected", "database", database)
	return &GridFSStore{
		client: client,
		bucket: client.Database(database).GridFSBucket(),
	}, nil
}

func (s *GridFSStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	id, err := s.bucket.UploadFromStream(ctx, name, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return id.Hex(), nil
}

func (s *GridFSStore) Get(ctx context.Context, key string) ([]byte, error) {
	id, err := bson.ObjectIDFromHex(key)
	if err != nil {
		return nil, ErrBlobNotFound
	}
	stream, err := s.bucket.OpenDownloadStream(ctx, id)
	if errors.Is(err, mongo.ErrFileNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gridfs open: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("gridfs read: %w", err)
	}
	return data, nil
}

func (s *GridFSStore) Delete(ctx context.Context, key string) error {
	id, err := bson.ObjectIDFromHex(key)
	if err != nil {
		return nil
	}
	if err := s.bucket.Delete(ctx, id); err != nil && !errors.Is(err, mongo.ErrFileNotFound) {
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}

func (s *GridFSStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
