package model

import "time"

// SkillLike — отметка «нравится» пользователя; одна строка на пару (skill, user).
type SkillLike struct {
	SkillID   string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SkillLike) TableName() string {
	return "skill_likes"
}
