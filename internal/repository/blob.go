package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// BlobStore persists opaque binary objects and returns public URLs.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Stats(ctx context.Context) (*BlobStats, error)
	Close() error
}

// BlobStats describes the stored audio objects.
type BlobStats struct {
	ObjectCount  int       `json:"object_count"`
	TotalBytes   int64     `json:"total_bytes"`
	OldestObject time.Time `json:"oldest_object,omitempty"`
}

// CloudStorageBlobStore implements BlobStore on Google Cloud Storage.
type CloudStorageBlobStore struct {
	client     *storage.Client
	bucketName string
	prefix     string
}

var _ BlobStore = (*CloudStorageBlobStore)(nil)

// NewCloudStorageBlobStore creates a blob store backed by the given bucket.
func NewCloudStorageBlobStore(ctx context.Context, bucketName string) (*CloudStorageBlobStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &CloudStorageBlobStore{
		client:     client,
		bucketName: bucketName,
		prefix:     "audio/",
	}, nil
}

// Put uploads data under the given key with public-read access and
// returns the public URL.
func (b *CloudStorageBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	obj := b.client.Bucket(b.bucketName).Object(key)

	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.PredefinedACL = "publicRead"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("writing object data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing object writer: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucketName, key), nil
}

// Stats lists the stored audio objects and aggregates their sizes.
func (b *CloudStorageBlobStore) Stats(ctx context.Context) (*BlobStats, error) {
	bucket := b.client.Bucket(b.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: b.prefix})

	stats := &BlobStats{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}

		stats.ObjectCount++
		stats.TotalBytes += attrs.Size

		if stats.OldestObject.IsZero() || attrs.Created.Before(stats.OldestObject) {
			stats.OldestObject = attrs.Created
		}
	}

	return stats, nil
}

// Close closes the underlying storage client.
func (b *CloudStorageBlobStore) Close() error {
	return b.client.Close()
}
