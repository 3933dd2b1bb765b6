package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStorage stores exported artifacts such as daily reports and receipts.
type ObjectStorage interface {
	Put(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error
	PutJSON(ctx context.Context, bucket, object string, value any) error
	EnsureBucketExists(ctx context.Context, bucket string) error
	Ping(ctx context.Context, bucket string) error
}

type minioStorage struct {
	client *minio.Client
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioStorage{client: client}, nil
}

func (m *minioStorage) Put(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", bucket, object, err)
	}
	return nil
}

func (m *minioStorage) PutJSON(ctx context.Context, bucket, object string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", object, err)
	}
	return m.Put(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), "application/json")
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context, bucket string) error {
	found, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Ping checks that the server answers; the bucket need not exist yet.
func (m *minioStorage) Ping(ctx context.Context, bucket string) error {
	_, err := m.client.BucketExists(ctx, bucket)
	return err
}
