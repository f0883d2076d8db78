package service

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/model"
	"SkillHub/internal/repo"
	"SkillHub/internal/storage"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgSkillNotFound = "Skill not found"
	msgKeyInUse      = "File is already used by another skill"
)

// SkillService инкапсулирует жизненный цикл Skill: публикация, модерация, правки, лайки, скачивания.
type SkillService struct {
	skills repo.SkillRepository
	likes  repo.LikeRepository
	store  storage.ObjectStore
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewSkillService(skills repo.SkillRepository, likes repo.LikeRepository, store storage.ObjectStore, logger *zap.SugaredLogger) *SkillService {
	return &SkillService{
		skills: skills,
		likes:  likes,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateInput — данные новой публикации; файлы уже загружены в хранилище.
type CreateInput struct {
	Name        string
	Description string
	ArchiveKey  string
	ArchiveSize *int64
	ImageKeys   []string
}

// Create регистрирует skill в статусе pending.
func (s *SkillService) Create(ctx context.Context, author auth.Identity, in CreateInput) (*model.Skill, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	key := strings.TrimSpace(in.ArchiveKey)
	if name == "" || desc == "" || key == "" {
		return nil, validationErr("Name, description and file are required")
	}
	if !archiveKeyOwned(author.ID, key) {
		return nil, validationErr("Invalid file key")
	}
	images, err := checkImageKeys(author.ID, in.ImageKeys)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnused(ctx, "", append([]string{key}, images...), "Failed to create skill"); err != nil {
		return nil, err
	}

	info, err := s.store.Head(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationErr("Uploaded file not found")
		}
		return nil, storageErr("Failed to create skill", err)
	}
	size := in.ArchiveSize
	if size == nil {
		size = &info.Size
	}

	sk := &model.Skill{
		ID:          uuid.NewString(),
		Name:        name,
		Description: desc,
		AuthorID:    author.ID,
		AuthorName:  author.DisplayName(),
		FileKey:     key,
		FileSize:    size,
		ImageKeys:   datatypes.JSONSlice[string](images),
		Status:      model.StatusPending,
		CreatedAt:   s.now(),
	}
	if author.AvatarURL != "" {
		avatar := author.AvatarURL
		sk.AuthorAvatar = &avatar
	}
	if err := s.skills.Create(ctx, sk); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationErr(msgKeyInUse)
		}
		return nil, storageErr("Failed to create skill", err)
	}
	s.logger.Infow("skill submitted", "skill_id", sk.ID, "author_id", author.ID)
	return sk, nil
}

// Get возвращает skill. Неодобренный виден только автору и администратору.
func (s *SkillService) Get(ctx context.Context, id string, requester *auth.Identity) (*model.Skill, error) {
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sk.Status == model.StatusApproved {
		return sk, nil
	}
	if requester != nil && (requester.IsAdmin || sk.IsAuthor(requester.ID)) {
		return sk, nil
	}
	return nil, notFoundErr(msgSkillNotFound)
}

// GetApproved возвращает только одобренный skill.
func (s *SkillService) GetApproved(ctx context.Context, id string) (*model.Skill, error) {
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sk.Status != model.StatusApproved {
		return nil, notFoundErr(msgSkillNotFound)
	}
	return sk, nil
}

func (s *SkillService) ListApproved(ctx context.Context, keyword string) ([]model.Skill, error) {
	out, err := s.skills.ListApproved(ctx, keyword)
	if err != nil {
		return nil, storageErr("Failed to fetch skills", err)
	}
	return out, nil
}

func (s *SkillService) ListPending(ctx context.Context) ([]model.Skill, error) {
	out, err := s.skills.ListPending(ctx)
	if err != nil {
		return nil, storageErr("Failed to fetch skills", err)
	}
	return out, nil
}

// Review применяет решение модератора к skill в статусе pending.
func (s *SkillService) Review(ctx context.Context, id string, decision model.SkillStatus) (*model.Skill, error) {
	if !decision.IsDecision() {
		return nil, validationErr("Invalid status")
	}
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sk.Status != model.StatusPending {
		return nil, stateErr("Only pending skills can be reviewed")
	}

	at := s.now()
	ok, err := s.skills.SetStatusIfPending(ctx, id, decision, at)
	if err != nil {
		return nil, storageErr("Failed to update skill", err)
	}
	if !ok {
		// кто-то успел рассмотреть раньше
		return nil, stateErr("Only pending skills can be reviewed")
	}
	sk.Status = decision
	sk.ReviewedAt = &at
	s.logger.Infow("skill reviewed", "skill_id", id, "status", decision)
	return sk, nil
}

// CheckEditable проверяет, что requester может править skill, до загрузки новых файлов.
func (s *SkillService) CheckEditable(ctx context.Context, id string, requester auth.Identity) (*model.Skill, error) {
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sk.IsAuthor(requester.ID) {
		return nil, forbiddenErr("Forbidden")
	}
	return sk, nil
}

// UpdatePatch — изменения skill. Пустые поля не меняются; ImageKeys == nil оставляет изображения как есть.
type UpdatePatch struct {
	Name        *string
	Description *string
	ArchiveKey  string
	ArchiveSize *int64
	ImageKeys   []string
}

// Update применяет правку автора. Заменённые файлы удаляются после записи, ошибки удаления только логируются.
// После успешной записи ошибок не возвращает: результат собирается из текущей записи и применённых изменений.
func (s *SkillService) Update(ctx context.Context, id string, requester auth.Identity, patch UpdatePatch) (*model.Skill, error) {
	current, err := s.CheckEditable(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	next := *current
	updates := map[string]any{}
	if patch.Name != nil {
		if n := strings.TrimSpace(*patch.Name); n != "" && n != current.Name {
			updates["name"] = n
			next.Name = n
		}
	}
	if patch.Description != nil {
		if d := strings.TrimSpace(*patch.Description); d != "" && d != current.Description {
			updates["description"] = d
			next.Description = d
		}
	}

	var orphans []string
	if key := strings.TrimSpace(patch.ArchiveKey); key != "" && key != current.FileKey {
		if !archiveKeyOwned(current.AuthorID, key) {
			return nil, validationErr("Invalid file key")
		}
		if err := s.checkUnused(ctx, id, []string{key}, "Failed to update skill"); err != nil {
			return nil, err
		}
		info, err := s.head(ctx, key, "Failed to update skill")
		if err != nil {
			return nil, err
		}
		size := info.Size
		if patch.ArchiveSize != nil {
			size = *patch.ArchiveSize
		}
		updates["file_key"] = key
		updates["file_size"] = size
		next.FileKey = key
		next.FileSize = &size
		orphans = append(orphans, current.FileKey)
	}

	if patch.ImageKeys != nil {
		images, err := checkImageKeys(current.AuthorID, patch.ImageKeys)
		if err != nil {
			return nil, err
		}
		stored := current.Images()
		if !sameMembership(stored, images) {
			added := subtract(images, stored)
			if err := s.checkUnused(ctx, id, added, "Failed to update skill"); err != nil {
				return nil, err
			}
			for _, k := range added {
				if _, err := s.head(ctx, k, "Failed to update skill"); err != nil {
					return nil, err
				}
			}
			updates["image_keys"] = datatypes.JSONSlice[string](images)
			next.ImageKeys = datatypes.JSONSlice[string](images)
			orphans = append(orphans, subtract(stored, images)...)
		}
	}

	if len(updates) == 0 {
		return current, nil
	}
	at := s.now()
	updates["updated_at"] = at
	next.UpdatedAt = &at

	if err := s.skills.UpdateFields(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr(msgSkillNotFound)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationErr(msgKeyInUse)
		}
		return nil, storageErr("Failed to update skill", err)
	}
	s.deleteObjects(ctx, orphans)
	s.logger.Infow("skill updated", "skill_id", id, "fields", len(updates)-1, "deleted_objects", len(orphans))
	return &next, nil
}

// LikeState — состояние лайка после переключения.
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// ToggleLike ставит или снимает лайк пользователя на одобренном skill.
func (s *SkillService) ToggleLike(ctx context.Context, id, userID string) (LikeState, error) {
	if _, err := s.GetApproved(ctx, id); err != nil {
		return LikeState{}, err
	}
	liked, err := s.likes.Toggle(ctx, id, userID)
	if err != nil {
		return LikeState{}, storageErr("Failed to toggle like", err)
	}
	count, err := s.likes.Count(ctx, id)
	if err != nil {
		return LikeState{}, storageErr("Failed to toggle like", err)
	}
	return LikeState{Liked: liked, Count: count}, nil
}

// ResolveDownload решает, можно ли скачать skill и нужно ли учитывать скачивание.
// Неодобренный skill доступен только администратору как предпросмотр, без учёта.
func (s *SkillService) ResolveDownload(ctx context.Context, id string, requester *auth.Identity) (*model.Skill, bool, error) {
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if sk.Status == model.StatusApproved {
		return sk, true, nil
	}
	if requester != nil && requester.IsAdmin {
		return sk, false, nil
	}
	return nil, false, notFoundErr(msgSkillNotFound)
}

// RecordDownload увеличивает счётчик скачиваний одобренного skill.
func (s *SkillService) RecordDownload(ctx context.Context, id string) error {
	ok, err := s.skills.IncrementDownloads(ctx, id)
	if err != nil {
		return storageErr("Failed to record download", err)
	}
	if ok {
		return nil
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return stateErr("Only approved skills count downloads")
}

func (s *SkillService) LikeCountsFor(ctx context.Context, ids []string) (map[string]int64, error) {
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}
	counts, err := s.likes.CountsFor(ctx, ids)
	if err != nil {
		return nil, storageErr("Failed to fetch likes", err)
	}
	return counts, nil
}

func (s *SkillService) LikedSkillIDsFor(ctx context.Context, userID string, ids []string) (map[string]bool, error) {
	if userID == "" || len(ids) == 0 {
		return map[string]bool{}, nil
	}
	liked, err := s.likes.LikedBy(ctx, userID, ids)
	if err != nil {
		return nil, storageErr("Failed to fetch likes", err)
	}
	return liked, nil
}

func (s *SkillService) load(ctx context.Context, id string) (*model.Skill, error) {
	sk, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr(msgSkillNotFound)
		}
		return nil, storageErr("Failed to fetch skill", err)
	}
	return sk, nil
}

// checkUnused: объект хранилища принадлежит не более чем одному skill.
func (s *SkillService) checkUnused(ctx context.Context, skillID string, keys []string, failMsg string) error {
	if len(keys) == 0 {
		return nil
	}
	used, err := s.skills.KeysInUse(ctx, keys, skillID)
	if err != nil {
		return storageErr(failMsg, err)
	}
	if used {
		return validationErr(msgKeyInUse)
	}
	return nil
}

func (s *SkillService) head(ctx context.Context, key, failMsg string) (*storage.ObjectInfo, error) {
	info, err := s.store.Head(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationErr("Uploaded file not found")
		}
		return nil, storageErr(failMsg, err)
	}
	return info, nil
}

func (s *SkillService) deleteObjects(ctx context.Context, keys []string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.store.Delete(ctx, k); err != nil {
			s.logger.Warnw("failed to delete replaced object", "key", k, "error", err)
		}
	}
}
