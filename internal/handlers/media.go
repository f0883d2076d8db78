package handlers

import (
	"SkillHub/internal/service"
	"SkillHub/internal/storage"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "video/ogg",
	".mov":  "video/quicktime",
}

var rangeRe = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// MediaHandler отдаёт изображения skills и видео с поддержкой Range.
type MediaHandler struct {
	Skills *service.SkillService
	Store  storage.ObjectStore
	Logger *zap.SugaredLogger
}

func NewMediaHandler(skills *service.SkillService, store storage.ObjectStore, logger *zap.SugaredLogger) *MediaHandler {
	return &MediaHandler{Skills: skills, Store: store, Logger: logger}
}

// Image обложка одобренного skill по индексу
func (h *MediaHandler) Image(w http.ResponseWriter, r *http.Request) {
	sk, err := h.Skills.GetApproved(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "Image", err)
		return
	}

	index := 0
	if v := r.URL.Query().Get("index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		index = n
	}
	images := sk.Images()
	if index < 0 || index >= len(images) {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}

	obj, err := h.Store.Get(r.Context(), images[index], nil)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		h.Logger.Errorw("Image: object read failed", "skill_id", sk.ID, "key", images[index], "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch image")
		return
	}
	defer obj.Body.Close()

	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Length, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj.Body)
}

// Video отдаёт видео целиком или диапазоном байт.
func (h *MediaHandler) Video(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	ct, ok := videoTypes[strings.ToLower(path.Ext(key))]
	if key == "" || !ok {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	info, err := h.Store.Head(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		h.Logger.Errorw("Video: head failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	total := info.Size

	var rng *storage.ByteRange
	if header := r.Header.Get("Range"); header != "" {
		parsed, ok := parseRange(header, total)
		if !ok {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", total))
			writeError(w, http.StatusRequestedRangeNotSatisfiable, "Range not satisfiable")
			return
		}
		rng = &parsed
	}

	length := total
	status := http.StatusOK
	if rng != nil {
		length = rng.Len()
		status = http.StatusPartialContent
	}
	writeVideoHeaders := func() {
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Cache-Control", "public, max-age=31536000")
		w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
		if rng != nil {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, total))
		}
		w.WriteHeader(status)
	}
	if r.Method == http.MethodHead {
		writeVideoHeaders()
		return
	}

	obj, err := h.Store.Get(r.Context(), key, rng)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		h.Logger.Errorw("Video: object read failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	defer obj.Body.Close()

	writeVideoHeaders()
	_, _ = io.Copy(w, obj.Body)
}

// parseRange разбирает "bytes=start-[end]"; пустой end — до конца объекта.
func parseRange(header string, total int64) (storage.ByteRange, bool) {
	m := rangeRe.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return storage.ByteRange{}, false
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return storage.ByteRange{}, false
	}
	end := total - 1
	if m[2] != "" {
		if end, err = strconv.ParseInt(m[2], 10, 64); err != nil {
			return storage.ByteRange{}, false
		}
	}
	if start >= total || end >= total || start > end {
		return storage.ByteRange{}, false
	}
	return storage.ByteRange{Start: start, End: end}, true
}
