package handlers

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/config"
	"SkillHub/internal/middleware"
	"SkillHub/internal/service"
	"SkillHub/internal/storage"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	skillService *service.SkillService,
	store storage.ObjectStore,
	policy *auth.Policy,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithLogging)
	if len(config.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   config.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Range"},
			ExposedHeaders:   []string{"Content-Disposition", "Content-Length", "Content-Range", "Accept-Ranges"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.WithAuth(policy))

	// Handlers
	skillHandler := NewSkillHandler(skillService, store, logger, config)
	adminHandler := NewAdminHandler(skillService, logger)
	uploadHandler := NewUploadHandler(store, logger, config)
	mediaHandler := NewMediaHandler(skillService, store, logger)
	sessionHandler := NewSessionHandler(policy, logger)
	limiter := middleware.NewUploadLimiter(config.UploadRatePerMin)

	r.Route("/api", func(r chi.Router) {
		// JSON
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithGzip)

			r.Get("/skills", skillHandler.List)
			r.Get("/skills/{id}", skillHandler.Get)
			r.Post("/logout", sessionHandler.Logout)
			if config.DevLogin {
				logger.Warn("DEV_LOGIN is enabled: /api/dev/login issues sessions without OAuth")
				r.Post("/dev/login", sessionHandler.DevLogin)
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/skills", skillHandler.Create)
				r.Post("/skills/{id}/like", skillHandler.ToggleLike)
				r.Get("/me", skillHandler.Me)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/admin/skills", adminHandler.ListPending)
				r.Patch("/admin/skills", adminHandler.Review)
			})
		})

		// Загрузка файлов
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Use(middleware.WithRateLimit(limiter))
			r.Post("/upload", uploadHandler.UploadArchive)
			r.Post("/upload-image", uploadHandler.UploadImage)
			r.Put("/skills/{id}", skillHandler.Update)
		})

		// Бинарные ответы
		r.Get("/skills/{id}/download", skillHandler.Download)
		r.Get("/skills/{id}/image", mediaHandler.Image)
		r.Get("/video/*", mediaHandler.Video)
		r.Head("/video/*", mediaHandler.Video)
	})

	return &Handler{Router: r}
}
