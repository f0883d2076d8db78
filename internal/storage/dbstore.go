package storage

import (
	"SkillHub/internal/model"
	"SkillHub/internal/repo"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"
)

// DBStore хранит объекты в таблице blobs. Для локального запуска и тестов.
type DBStore struct {
	blobs repo.BlobRepository
}

// NewDBStore создаёт ObjectStore поверх BlobRepository.
func NewDBStore(blobs repo.BlobRepository) *DBStore {
	return &DBStore{blobs: blobs}
}

func (s *DBStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body for %s: %w", key, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("put %s: size mismatch: declared %d, got %d", key, size, len(data))
	}
	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return s.blobs.Put(ctx, &model.Blob{
		Key:         key,
		Data:        data,
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata:    meta,
	})
}

func (s *DBStore) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	b, err := s.blobs.Stat(ctx, key)
	if err != nil {
		return nil, translateDBError(key, err)
	}
	info := blobInfo(b)
	return &info, nil
}

func (s *DBStore) Get(ctx context.Context, key string, rng *ByteRange) (*Object, error) {
	b, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, translateDBError(key, err)
	}
	data := b.Data
	if rng != nil {
		if rng.Start < 0 || rng.End < rng.Start || rng.End >= int64(len(data)) {
			return nil, fmt.Errorf("range %d-%d out of bounds for %s", rng.Start, rng.End, key)
		}
		data = data[rng.Start : rng.End+1]
	}
	return &Object{
		ObjectInfo: blobInfo(b),
		Body:       io.NopCloser(bytes.NewReader(data)),
		Length:     int64(len(data)),
	}, nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	return s.blobs.Delete(ctx, key)
}

func (s *DBStore) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrPresignUnsupported
}

func blobInfo(b *model.Blob) ObjectInfo {
	meta := make(map[string]string, len(b.Metadata))
	for k, v := range b.Metadata {
		if sv, ok := v.(string); ok {
			meta[k] = sv
		}
	}
	return ObjectInfo{Key: b.Key, Size: b.Size, ContentType: b.ContentType, Metadata: meta}
}

func translateDBError(key string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", key, err)
}
