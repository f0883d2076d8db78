package handlers

import (
	"SkillHub/internal/model"
	"SkillHub/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// AdminHandler — очередь модерации.
type AdminHandler struct {
	Skills *service.SkillService
	Logger *zap.SugaredLogger
}

func NewAdminHandler(skills *service.SkillService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{Skills: skills, Logger: logger}
}

// ListPending skills, ожидающие решения, старые первыми
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	skills, err := h.Skills.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, "ListPending", err)
		return
	}
	for i := range skills {
		skills[i].ImageKeys = skills[i].Images()
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": skills})
}

// Review одобрение или отклонение skill
func (h *AdminHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Review: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Skill ID and valid status are required")
		return
	}

	sk, err := h.Skills.Review(r.Context(), req.ID, model.SkillStatus(req.Status))
	if err != nil {
		writeServiceError(w, h.Logger, "Review", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skill": sk})
}
