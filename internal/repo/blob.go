package repo

import (
	"SkillHub/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRepository минимальный контракт доступа к Blob.
type BlobRepository interface {
	// Put создаёт объект или перезаписывает существующий с тем же ключом.
	Put(ctx context.Context, b *model.Blob) error
	Get(ctx context.Context, key string) (*model.Blob, error)
	// Stat возвращает метаданные без содержимого.
	Stat(ctx context.Context, key string) (*model.Blob, error)
	// Delete идемпотентен: отсутствие ключа не ошибка.
	Delete(ctx context.Context, key string) error
}

type blobRepo struct {
	db *gorm.DB
}

// NewBlobRepository создаёт реализацию репозитория для Blob.
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepo{db: db}
}

func (r *blobRepo) Put(ctx context.Context, b *model.Blob) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "size", "content_type", "metadata"}),
	}).Create(b).Error
}

func (r *blobRepo) Get(ctx context.Context, key string) (*model.Blob, error) {
	var b model.Blob
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blobRepo) Stat(ctx context.Context, key string) (*model.Blob, error) {
	var b model.Blob
	err := r.db.WithContext(ctx).
		Select("key", "size", "content_type", "metadata", "created_at").
		Where("key = ?", key).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blobRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.Blob{}).Error
}
