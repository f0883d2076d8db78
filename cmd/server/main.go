package main

import (
	"SkillHub/internal/auth"
	"SkillHub/internal/config"
	"SkillHub/internal/handlers"
	"SkillHub/internal/middleware"
	"SkillHub/internal/repo"
	"SkillHub/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	store, err := newObjectStore(cfg, gormDB)
	if err != nil {
		sugar.Fatalw("failed to initialize object storage", "backend", cfg.StorageBackend, "error", err)
	}

	skillService := service.NewSkillService(
		repo.NewSkillRepository(gormDB),
		repo.NewLikeRepository(gormDB),
		store,
		sugar,
	)
	policy := auth.NewPolicy(cfg.AuthSecret, cfg.AdminIDs)

	h := handlers.NewHandler(skillService, store, policy, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", addr)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"StorageBackend", cfg.StorageBackend,
		"PresignDownloads", cfg.PresignDownloads,
		"Admins", len(cfg.AdminIDs),
		"ArchiveMaxSizeMB", cfg.ArchiveMaxSizeMB,
		"ImageMaxSizeMB", cfg.ImageMaxSizeMB,
	)
	if cfg.AuthSecret == "dev-secret-key" {
		sugar.Warn("AUTH_SECRET is not set, using development secret")
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
}
