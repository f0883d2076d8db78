package repo

import (
	"SkillHub/internal/model"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SkillRepository — доступ к таблице skills.
type SkillRepository interface {
	Create(ctx context.Context, s *model.Skill) error
	// GetByID возвращает gorm.ErrRecordNotFound, если записи нет.
	GetByID(ctx context.Context, id string) (*model.Skill, error)
	// ListApproved — одобренные skills, новые первыми; keyword фильтрует по name/description.
	ListApproved(ctx context.Context, keyword string) ([]model.Skill, error)
	// ListPending — очередь модерации, старые первыми.
	ListPending(ctx context.Context) ([]model.Skill, error)
	// UpdateFields обновляет колонки одной записи одним выражением.
	UpdateFields(ctx context.Context, id string, updates map[string]any) error
	// SetStatusIfPending меняет статус только у записи в pending. false — запись не в pending (или её нет).
	SetStatusIfPending(ctx context.Context, id string, status model.SkillStatus, at time.Time) (bool, error)
	// IncrementDownloads увеличивает счётчик только у одобренной записи.
	IncrementDownloads(ctx context.Context, id string) (bool, error)
	// KeysInUse сообщает, ссылается ли какая-либо запись, кроме exceptID, на один из ключей
	// (архивом или изображением).
	KeysInUse(ctx context.Context, keys []string, exceptID string) (bool, error)
}

type skillRepo struct {
	db *gorm.DB
}

// NewSkillRepository создаёт реализацию репозитория для Skill.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) Create(ctx context.Context, s *model.Skill) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *skillRepo) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	var s model.Skill
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *skillRepo) ListApproved(ctx context.Context, keyword string) ([]model.Skill, error) {
	q := r.db.WithContext(ctx).Where("status = ?", model.StatusApproved)
	if kw := strings.TrimSpace(keyword); kw != "" {
		pattern := "%" + escapeLike(strings.ToLower(kw)) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	var out []model.Skill
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRepo) ListPending(ctx context.Context) ([]model.Skill, error) {
	var out []model.Skill
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRepo) UpdateFields(ctx context.Context, id string, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.Skill{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *skillRepo) SetStatusIfPending(ctx context.Context, id string, status model.SkillStatus, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Skill{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]any{"status": status, "reviewed_at": at})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *skillRepo) IncrementDownloads(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Skill{}).
		Where("id = ? AND status = ?", id, model.StatusApproved).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *skillRepo) KeysInUse(ctx context.Context, keys []string, exceptID string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	cond := r.db.Where("file_key IN ?", keys)
	for _, k := range keys {
		// image_keys хранится JSON-массивом строк: ищем элемент целиком, в кавычках
		cond = cond.Or(`CAST(image_keys AS TEXT) LIKE ? ESCAPE '\'`, `%"`+escapeLike(k)+`"%`)
	}
	q := r.db.WithContext(ctx).Model(&model.Skill{}).Where(cond)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// escapeLike экранирует спецсимволы LIKE, чтобы ключевое слово искалось буквально.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
