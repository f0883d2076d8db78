package model

import "time"

// SchemaVersion — применённая версия схемы БД.
type SchemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	AppliedAt time.Time `gorm:"not null"`
}
