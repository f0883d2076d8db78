package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config — параметры подключения к S3-совместимому хранилищу (R2, MinIO, AWS).
type S3Config struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	UseSSL          bool
}

// S3Store — ObjectStore поверх minio-go.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store создаёт клиента. Сетевых вызовов не делает.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translateS3Error(key, err)
	}
	return &ObjectInfo{
		Key:         key,
		Size:        info.Size,
		ContentType: info.ContentType,
		Metadata:    info.UserMetadata,
	}, nil
}

func (s *S3Store) Get(ctx context.Context, key string, rng *ByteRange) (*Object, error) {
	// полный размер нужен для Content-Range, поэтому сначала HEAD
	info, err := s.Head(ctx, key)
	if err != nil {
		return nil, err
	}

	opts := minio.GetObjectOptions{}
	length := info.Size
	if rng != nil {
		if err := opts.SetRange(rng.Start, rng.End); err != nil {
			return nil, fmt.Errorf("range for %s: %w", key, err)
		}
		length = rng.Len()
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		return nil, translateS3Error(key, err)
	}
	return &Object{ObjectInfo: *info, Body: obj, Length: length}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if errors.Is(translateS3Error(key, err), ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

func translateS3Error(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", key, err)
}
