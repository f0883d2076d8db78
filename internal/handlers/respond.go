package handlers

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/middleware"
	"SkillHub/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError сопоставляет категорию ошибки сервиса со статусом ответа.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logger.Errorw(op+": service error", "error", err)
	}
	writeError(w, status, service.Message(err))
}

// requester возвращает пользователя запроса или nil для анонима.
func requester(r *http.Request) *auth.Identity {
	if id, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		return &id
	}
	return nil
}
