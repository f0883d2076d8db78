package main

import (
	"SkillHub/internal/config"
	"SkillHub/internal/repo"
	"SkillHub/internal/storage"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectStore_DefaultsToDatabase(t *testing.T) {
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	store, err := newObjectStore(&config.Config{StorageBackend: config.StorageBackendDB}, db)
	require.NoError(t, err)
	assert.IsType(t, &storage.DBStore{}, store)
}

func TestNewObjectStore_S3(t *testing.T) {
	store, err := newObjectStore(&config.Config{
		StorageBackend:    config.StorageBackendS3,
		S3Endpoint:        "localhost:9000",
		S3Bucket:          "skills",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
		S3Region:          "auto",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Store{}, store)
}
