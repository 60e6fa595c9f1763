package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"metra-backend/internal/core/cache"
	"metra-backend/internal/core/config"
	"metra-backend/internal/core/database"
	"metra-backend/internal/core/logger"
	"metra-backend/internal/core/server"
	"metra-backend/internal/core/session"
	"metra-backend/internal/domain"
	"metra-backend/internal/media"
	"metra-backend/internal/notify"
	"metra-backend/internal/repo"
	"metra-backend/internal/transport/http/handler"
	"metra-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.Agent{}, &domain.User{}, &domain.Property{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Sessions live in process memory only; a restart logs everyone out.
	sessions := session.NewStore(cfg.SessionTTL())
	log.Info("session store ready", zap.Duration("ttl", cfg.SessionTTL()))

	agentCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	if agentCache != nil {
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	uploader := media.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if !uploader.Configured() {
		log.Warn("media host not configured; profile photo uploads will be skipped")
	}
	notifier := notify.NewWebhook(cfg.Webhook.AgentRegisteredURL)

	users := repo.NewUserRepo(db)
	h := handler.New(handler.Options{
		Log:             log,
		Agents:          repo.NewAgentRepo(db),
		Users:           users,
		Properties:      repo.NewPropertyRepo(db),
		Sessions:        sessions,
		Uploader:        uploader,
		Notifier:        notifier,
		Cache:           agentCache,
		FrontendBaseURL: cfg.Frontend.BaseURL,
	})

	engine := router.New(router.Options{
		Log:            log,
		Handler:        h,
		Sessions:       sessions,
		Users:          users,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedDomains: cfg.CORS.AllowedDomains,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.Build(
		addr, engine,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	log.Info("api starting", zap.String("addr", addr), zap.String("env", cfg.App.Env))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.Open(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
