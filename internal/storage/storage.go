// Package storage — объектное хранилище архивов и изображений skills.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound — объекта с таким ключом нет.
	ErrNotFound = errors.New("object not found")
	// ErrPresignUnsupported — бэкенд не умеет выдавать временные ссылки.
	ErrPresignUnsupported = errors.New("presigned urls are not supported by this backend")
)

// ByteRange — включительный диапазон байт [Start, End].
type ByteRange struct {
	Start int64
	End   int64
}

// Len возвращает длину диапазона.
func (r ByteRange) Len() int64 { return r.End - r.Start + 1 }

// ObjectInfo — метаданные объекта без содержимого.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Object — открытый на чтение объект. Body обязательно закрыть.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
	// Length — сколько байт отдаёт Body (меньше Size при запросе диапазона).
	Length int64
}

// ObjectStore — контракт объектного хранилища.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, metadata map[string]string) error
	// Get открывает объект целиком (rng == nil) или его диапазон.
	Get(ctx context.Context, key string, rng *ByteRange) (*Object, error)
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	// Delete не считает отсутствие ключа ошибкой.
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
