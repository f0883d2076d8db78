package main

import (
	"SkillHub/internal/config"
	"SkillHub/internal/repo"
	"SkillHub/internal/storage"

	"gorm.io/gorm"
)

// newObjectStore выбирает бэкенд хранилища по конфигу.
func newObjectStore(cfg *config.Config, db *gorm.DB) (storage.ObjectStore, error) {
	if cfg.StorageBackend == config.StorageBackendS3 {
		return storage.NewS3Store(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			UseSSL:          cfg.S3UseSSL,
		})
	}
	return storage.NewDBStore(repo.NewBlobRepository(db)), nil
}
