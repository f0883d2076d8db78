package handlers

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/middleware"
	"net/http"

	"go.uber.org/zap"
)

// SessionHandler выдаёт и сбрасывает cookie сессии.
// Боевые сессии выписывает внешний OAuth-мост тем же секретом; DevLogin — его замена для локальной разработки.
type SessionHandler struct {
	Policy *auth.Policy
	Logger *zap.SugaredLogger
}

func NewSessionHandler(policy *auth.Policy, logger *zap.SugaredLogger) *SessionHandler {
	return &SessionHandler{Policy: policy, Logger: logger}
}

type devLoginRequest struct {
	ID        string `json:"id" validate:"required,max=64"`
	Name      string `json:"name" validate:"max=100"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// DevLogin сессия для произвольного пользователя
func (h *SessionHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req devLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	user := auth.Identity{ID: req.ID, Name: req.Name, AvatarURL: req.AvatarURL}
	token, err := middleware.SetLoginCookie(w, user, h.Policy)
	if err != nil {
		h.Logger.Errorw("DevLogin: issue token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	user.Name = user.DisplayName()
	user.IsAdmin = h.Policy.IsAdmin(user.ID)
	h.Logger.Warnw("dev login", "user_id", user.ID, "is_admin", user.IsAdmin)

	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

// Logout сбрасывает cookie сессии
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
