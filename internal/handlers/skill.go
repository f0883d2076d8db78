package handlers

import (
	"SkillHub/internal/config"
	"SkillHub/internal/middleware"
	"SkillHub/internal/model"
	"SkillHub/internal/service"
	"SkillHub/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SkillHandler — публичный каталог и правки автора.
type SkillHandler struct {
	Skills *service.SkillService
	Store  storage.ObjectStore
	Logger *zap.SugaredLogger
	Config *config.Config
}

// NewSkillHandler создаёт хендлер skills
func NewSkillHandler(skills *service.SkillService, store storage.ObjectStore, logger *zap.SugaredLogger, cfg *config.Config) *SkillHandler {
	return &SkillHandler{Skills: skills, Store: store, Logger: logger, Config: cfg}
}

// SkillView — skill в ответе API вместе с лайками.
type SkillView struct {
	model.Skill
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

// List поиск по одобренным skills
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	skills, err := h.Skills.ListApproved(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.Logger, "List", err)
		return
	}
	views, err := h.withLikes(r, skills)
	if err != nil {
		writeServiceError(w, h.Logger, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": views})
}

// Get карточка skill
func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	sk, err := h.Skills.Get(r.Context(), chi.URLParam(r, "id"), requester(r))
	if err != nil {
		writeServiceError(w, h.Logger, "Get", err)
		return
	}
	views, err := h.withLikes(r, []model.Skill{*sk})
	if err != nil {
		writeServiceError(w, h.Logger, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skill": views[0]})
}

// Create публикация skill из уже загруженных файлов
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetIdentityFromContext(r.Context())

	var req createSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Create: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Name, description and file are required")
		return
	}

	sk, err := h.Skills.Create(r.Context(), user, service.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		ArchiveKey:  req.FileKey,
		ArchiveSize: req.FileSize,
		ImageKeys:   req.ImageKeys,
	})
	if err != nil {
		writeServiceError(w, h.Logger, "Create", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"skill": sk})
}

// Update правка skill автором: поля формы, новый архив, набор изображений.
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := middleware.GetIdentityFromContext(ctx)
	id := chi.URLParam(r, "id")

	// права проверяем до загрузки файлов, чтобы не плодить сирот
	current, err := h.Skills.CheckEditable(ctx, id, user)
	if err != nil {
		writeServiceError(w, h.Logger, "Update", err)
		return
	}

	maxBody := megabytes(h.Config.ArchiveMaxSizeMB) + model.MaxImages*megabytes(h.Config.ImageMaxSizeMB) + megabytes(1)
	if status, msg := parseMultipart(w, r, maxBody); status != 0 {
		writeError(w, status, msg)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var patch service.UpdatePatch
	if v, ok := formValue(r, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(r, "description"); ok {
		patch.Description = &v
	}

	stored := current.Images()
	kept := stored
	raw, keptProvided := formValue(r, "keptImageKeys")
	if keptProvided {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid keptImageKeys")
			return
		}
		kept = list
	}

	var archive *multipart.FileHeader
	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		archive = files[0]
		if status, msg := checkArchive(archive, h.Config.ArchiveMaxSizeMB); status != 0 {
			writeError(w, status, msg)
			return
		}
	}
	images := r.MultipartForm.File["images"]
	for _, img := range images {
		if status, msg := checkImage(img, h.Config.ImageMaxSizeMB); status != 0 {
			writeError(w, status, msg)
			return
		}
	}
	// лишние новые изображения не загружаем вовсе
	if slots := service.ImageSlots(stored, kept); len(images) > slots {
		images = images[:slots]
	}

	var uploaded []string
	cleanup := func() { h.deleteKeys(context.WithoutCancel(ctx), uploaded) }

	if archive != nil {
		key, size, err := putArchive(ctx, h.Store, user.ID, archive)
		if err != nil {
			h.Logger.Errorw("Update: archive upload failed", "skill_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to upload file")
			return
		}
		uploaded = append(uploaded, key)
		patch.ArchiveKey = key
		patch.ArchiveSize = &size
	}

	added := make([]string, 0, len(images))
	for _, img := range images {
		key, err := putImage(ctx, h.Store, user.ID, img)
		if err != nil {
			h.Logger.Errorw("Update: image upload failed", "skill_id", id, "error", err)
			cleanup()
			writeError(w, http.StatusInternalServerError, "Failed to upload image")
			return
		}
		uploaded = append(uploaded, key)
		added = append(added, key)
	}
	if keptProvided || len(added) > 0 {
		patch.ImageKeys = service.MergeImageKeys(stored, kept, added)
	}

	updated, err := h.Skills.Update(ctx, id, user, patch)
	if err != nil {
		// сбой хранилища: запись могла пройти, загруженные объекты не удаляем
		if !errors.Is(err, service.ErrStorage) {
			cleanup()
		}
		writeServiceError(w, h.Logger, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skill": updated})
}

// ToggleLike ставит или снимает лайк
func (h *SkillHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetIdentityFromContext(r.Context())
	state, err := h.Skills.ToggleLike(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeServiceError(w, h.Logger, "ToggleLike", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Download отдаёт архив потоком или временной ссылкой.
func (h *SkillHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	sk, counted, err := h.Skills.ResolveDownload(ctx, id, requester(r))
	if err != nil {
		writeServiceError(w, h.Logger, "Download", err)
		return
	}

	if h.Config.PresignDownloads {
		link, err := h.Store.PresignGet(ctx, sk.FileKey, h.Config.PresignTTL)
		switch {
		case err == nil:
			if counted {
				if err := h.Skills.RecordDownload(ctx, sk.ID); err != nil {
					writeServiceError(w, h.Logger, "Download", err)
					return
				}
			}
			writeJSON(w, http.StatusOK, map[string]string{"downloadUrl": link})
			return
		case !errors.Is(err, storage.ErrPresignUnsupported):
			h.Logger.Errorw("Download: presign failed", "skill_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to generate download URL")
			return
		}
		// бэкенд без ссылок: отдаём потоком
	}

	obj, err := h.Store.Get(ctx, sk.FileKey, nil)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		h.Logger.Errorw("Download: object read failed", "skill_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to download skill")
		return
	}
	defer obj.Body.Close()

	if counted {
		if err := h.Skills.RecordDownload(ctx, sk.ID); err != nil {
			writeServiceError(w, h.Logger, "Download", err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", contentDisposition(sk.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Length, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.Logger.Warnw("Download: stream interrupted", "skill_id", id, "error", err)
	}
}

// Me текущий пользователь
func (h *SkillHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetIdentityFromContext(r.Context())
	user.Name = user.DisplayName()
	writeJSON(w, http.StatusOK, user)
}

func (h *SkillHandler) withLikes(r *http.Request, skills []model.Skill) ([]SkillView, error) {
	ids := make([]string, len(skills))
	for i := range skills {
		ids[i] = skills[i].ID
	}
	counts, err := h.Skills.LikeCountsFor(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	var userID string
	if u := requester(r); u != nil {
		userID = u.ID
	}
	liked, err := h.Skills.LikedSkillIDsFor(r.Context(), userID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]SkillView, len(skills))
	for i, sk := range skills {
		sk.ImageKeys = sk.Images()
		views[i] = SkillView{Skill: sk, Likes: counts[sk.ID], Liked: liked[sk.ID]}
	}
	return views, nil
}

func (h *SkillHandler) deleteKeys(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := h.Store.Delete(ctx, k); err != nil {
			h.Logger.Warnw("failed to delete uploaded object", "key", k, "error", err)
		}
	}
}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_",
)

// contentDisposition строит заголовок вложения с именем skill в обеих формах.
func contentDisposition(name string) string {
	enc := strings.ReplaceAll(url.QueryEscape(unsafeFilenameChars.Replace(name)), "+", "%20")
	return fmt.Sprintf(`attachment; filename="%s.zip"; filename*=UTF-8''%s.zip`, enc, enc)
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	v, ok := r.MultipartForm.Value[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
