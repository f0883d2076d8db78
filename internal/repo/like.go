package repo

import (
	"SkillHub/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository — доступ к таблице skill_likes.
type LikeRepository interface {
	// Toggle снимает лайк, если он был, иначе ставит. Возвращает новое состояние.
	Toggle(ctx context.Context, skillID, userID string) (liked bool, err error)
	Count(ctx context.Context, skillID string) (int64, error)
	// CountsFor возвращает количество лайков для каждого id (0 для отсутствующих).
	CountsFor(ctx context.Context, skillIDs []string) (map[string]int64, error)
	// LikedBy возвращает множество id из skillIDs, которые лайкнул userID.
	LikedBy(ctx context.Context, userID string, skillIDs []string) (map[string]bool, error)
}

type likeRepo struct {
	db *gorm.DB
}

// NewLikeRepository создаёт реализацию репозитория лайков.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepo{db: db}
}

// Toggle: условный DELETE, и только если удалять было нечего — INSERT ... ON CONFLICT DO NOTHING.
func (r *likeRepo) Toggle(ctx context.Context, skillID, userID string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("skill_id = ? AND user_id = ?", skillID, userID).
		Delete(&model.SkillLike{})
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected > 0 {
		return false, nil
	}

	like := &model.SkillLike{SkillID: skillID, UserID: userID, CreatedAt: time.Now().UTC()}
	tx = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "skill_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(like)
	if tx.Error != nil {
		return false, tx.Error
	}
	return true, nil
}

func (r *likeRepo) Count(ctx context.Context, skillID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SkillLike{}).Where("skill_id = ?", skillID).Count(&n).Error
	return n, err
}

func (r *likeRepo) CountsFor(ctx context.Context, skillIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(skillIDs))
	if len(skillIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		SkillID string
		Cnt     int64
	}
	err := r.db.WithContext(ctx).Model(&model.SkillLike{}).
		Select("skill_id, COUNT(*) AS cnt").
		Where("skill_id IN ?", skillIDs).
		Group("skill_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range skillIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.SkillID] = row.Cnt
	}
	return counts, nil
}

func (r *likeRepo) LikedBy(ctx context.Context, userID string, skillIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" || len(skillIDs) == 0 {
		return liked, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.SkillLike{}).
		Where("user_id = ? AND skill_id IN ?", userID, skillIDs).
		Pluck("skill_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
