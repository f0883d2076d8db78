package repo

import (
	"SkillHub/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBlobRepository_PutOverwrites(t *testing.T) {
	db := newTestDB(t)
	r := NewBlobRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &model.Blob{Key: "b1", Data: []byte{1, 2}, Size: 2, ContentType: "application/zip"}))
	// повторная запись по тому же ключу заменяет содержимое
	require.NoError(t, r.Put(ctx, &model.Blob{Key: "b1", Data: []byte{9}, Size: 1, ContentType: "image/png"}))

	got, err := r.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got.Data)
	assert.Equal(t, int64(1), got.Size)
	assert.Equal(t, "image/png", got.ContentType)
}

func TestBlobRepository_StatSkipsData(t *testing.T) {
	db := newTestDB(t)
	r := NewBlobRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &model.Blob{Key: "k", Data: []byte("hello"), Size: 5, ContentType: "text/plain"}))

	info, err := r.Stat(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Empty(t, info.Data)
}

func TestBlobRepository_DeleteIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := NewBlobRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &model.Blob{Key: "k", Data: []byte{1}, Size: 1}))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
