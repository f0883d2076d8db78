package handlers

import (
	"SkillHub/internal/config"
	"SkillHub/internal/middleware"
	"SkillHub/internal/storage"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// maxFormMemory — сколько multipart держим в памяти, остальное уходит во временные файлы.
const maxFormMemory = 32 << 20

// UploadHandler принимает архивы и изображения до создания skill.
type UploadHandler struct {
	Store  storage.ObjectStore
	Logger *zap.SugaredLogger
	Config *config.Config
}

// NewUploadHandler создаёт хендлер загрузок
func NewUploadHandler(store storage.ObjectStore, logger *zap.SugaredLogger, cfg *config.Config) *UploadHandler {
	return &UploadHandler{Store: store, Logger: logger, Config: cfg}
}

type uploadResponse struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// UploadArchive загрузка zip-архива skill
func (h *UploadHandler) UploadArchive(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetIdentityFromContext(r.Context())

	if status, msg := parseMultipart(w, r, megabytes(h.Config.ArchiveMaxSizeMB)+megabytes(1)); status != 0 {
		writeError(w, status, msg)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	fh := files[0]
	if status, msg := checkArchive(fh, h.Config.ArchiveMaxSizeMB); status != 0 {
		h.Logger.Warnw("UploadArchive: rejected", "user_id", user.ID, "name", fh.Filename, "size", fh.Size)
		writeError(w, status, msg)
		return
	}

	key, size, err := putArchive(r.Context(), h.Store, user.ID, fh)
	if err != nil {
		h.Logger.Errorw("UploadArchive: store failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, Size: size, ContentType: "application/zip"})
}

// UploadImage загрузка обложки skill
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetIdentityFromContext(r.Context())

	if status, msg := parseMultipart(w, r, megabytes(h.Config.ImageMaxSizeMB)+megabytes(1)); status != 0 {
		writeError(w, status, msg)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	fh := files[0]
	if status, msg := checkImage(fh, h.Config.ImageMaxSizeMB); status != 0 {
		h.Logger.Warnw("UploadImage: rejected", "user_id", user.ID, "type", fh.Header.Get("Content-Type"), "size", fh.Size)
		writeError(w, status, msg)
		return
	}

	key, err := putImage(r.Context(), h.Store, user.ID, fh)
	if err != nil {
		h.Logger.Errorw("UploadImage: store failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, Size: fh.Size, ContentType: imageType(fh)})
}

func megabytes(n int) int64 {
	return int64(n) << 20
}

// parseMultipart ограничивает тело и разбирает форму. Ненулевой статус — ответ с ошибкой.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBody int64) (int, string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, "File too large"
		}
		return http.StatusBadRequest, "Invalid form data"
	}
	return 0, ""
}

func checkArchive(fh *multipart.FileHeader, maxMB int) (int, string) {
	name := strings.ToLower(fh.Filename)
	ct := strings.ToLower(fh.Header.Get("Content-Type"))
	if !strings.HasSuffix(name, ".zip") && ct != "application/zip" && ct != "application/x-zip-compressed" {
		return http.StatusBadRequest, "Only .zip files are allowed"
	}
	if fh.Size == 0 {
		return http.StatusBadRequest, "File is empty"
	}
	if fh.Size > megabytes(maxMB) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("File must be smaller than %dMB", maxMB)
	}
	return 0, ""
}

func checkImage(fh *multipart.FileHeader, maxMB int) (int, string) {
	if _, ok := storage.ImageExt(imageType(fh)); !ok {
		return http.StatusBadRequest, "Only JPEG, PNG, WebP and GIF images are allowed"
	}
	if fh.Size == 0 {
		return http.StatusBadRequest, "Image is empty"
	}
	if fh.Size > megabytes(maxMB) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("Image must be smaller than %dMB", maxMB)
	}
	return 0, ""
}

func imageType(fh *multipart.FileHeader) string {
	return strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
}

func putArchive(ctx context.Context, store storage.ObjectStore, userID string, fh *multipart.FileHeader) (string, int64, error) {
	f, err := fh.Open()
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	key, err := storage.NewArchiveKey(userID, fh.Filename)
	if err != nil {
		return "", 0, err
	}
	meta := map[string]string{"original-name": url.PathEscape(fh.Filename)}
	if err := store.Put(ctx, key, f, fh.Size, "application/zip", meta); err != nil {
		return "", 0, err
	}
	return key, fh.Size, nil
}

func putImage(ctx context.Context, store storage.ObjectStore, userID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	ct := imageType(fh)
	key, err := storage.NewImageKey(userID, ct)
	if err != nil {
		return "", err
	}
	if err := store.Put(ctx, key, f, fh.Size, ct, nil); err != nil {
		return "", err
	}
	return key, nil
}
