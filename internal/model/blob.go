package model

import (
	"time"

	"gorm.io/datatypes"
)

// Blob — объект, хранящийся прямо в БД (бэкенд хранилища для dev и тестов).
type Blob struct {
	Key string `gorm:"primaryKey;size:512"`

	Data        []byte            `gorm:"not null"`
	Size        int64             `gorm:"not null"`
	ContentType string            `gorm:"size:255"`
	Metadata    datatypes.JSONMap

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
