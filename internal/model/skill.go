package model

import (
	"time"

	"gorm.io/datatypes"
)

// SkillStatus — состояние модерации skill.
type SkillStatus string

const (
	StatusPending  SkillStatus = "pending"
	StatusApproved SkillStatus = "approved"
	StatusRejected SkillStatus = "rejected"
)

// MaxImages — максимум обложек у одного skill.
const MaxImages = 5

// IsDecision сообщает, является ли статус итоговым решением модератора.
func (s SkillStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Skill — опубликованный (или ожидающий проверки) пакет.
type Skill struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`

	AuthorID     string  `gorm:"size:64;not null;index" json:"authorId"`
	AuthorName   string  `gorm:"not null" json:"authorName"`
	AuthorAvatar *string `json:"authorAvatar"`

	// Указатели на объекты в хранилище
	FileKey   string                      `gorm:"size:512;not null;uniqueIndex" json:"fileKey"`
	FileSize  *int64                      `json:"fileSize"`
	ImageKeys datatypes.JSONSlice[string] `gorm:"not null;default:'[]'" json:"imageKeys"`

	Status    SkillStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	Downloads int64       `gorm:"not null;default:0" json:"downloads"`

	CreatedAt  time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
	ReviewedAt *time.Time `json:"reviewedAt"`
}

// TableName specifies the table name for GORM.
func (Skill) TableName() string {
	return "skills"
}

// IsAuthor проверяет авторство.
func (s *Skill) IsAuthor(userID string) bool {
	return userID != "" && s.AuthorID == userID
}

// Images возвращает ключи обложек как обычный срез (никогда не nil).
func (s *Skill) Images() []string {
	out := make([]string, 0, len(s.ImageKeys))
	return append(out, s.ImageKeys...)
}
