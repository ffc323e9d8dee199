package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/noah-isme/school-website-api/api/swagger"
	"github.com/noah-isme/school-website-api/internal/handler"
	"github.com/noah-isme/school-website-api/internal/repository"
	"github.com/noah-isme/school-website-api/internal/server"
	"github.com/noah-isme/school-website-api/internal/service"
	"github.com/noah-isme/school-website-api/pkg/cache"
	"github.com/noah-isme/school-website-api/pkg/config"
	"github.com/noah-isme/school-website-api/pkg/database"
	"github.com/noah-isme/school-website-api/pkg/instagram"
	"github.com/noah-isme/school-website-api/pkg/logger"
	"github.com/noah-isme/school-website-api/pkg/media"
	"github.com/noah-isme/school-website-api/pkg/storage"
)

// @title School Website API
// @version 1.0.0
// @description Students, announcements and Instagram feed for the school website.
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.NewMongo(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logr.Warn("mongodb disconnect failed", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Database.Name)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logr.Warn("ensure indexes failed", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	cacheSvc, closeCache := newCacheService(cfg, metrics, logr)
	defer closeCache()

	host, uploadsDir, err := newMediaHost(ctx, cfg.Media)
	if err != nil {
		logr.Warn("media host unavailable; uploads will fail", zap.String("driver", cfg.Media.Driver), zap.Error(err))
	} else {
		host = media.Observed(host, cfg.Media.Driver, metrics)
	}

	validate := service.NewRequestValidator()
	studentRepo := repository.NewStudentRepository(db, metrics)
	announcementRepo := repository.NewAnnouncementRepository(db, metrics)

	studentSvc := service.NewStudentService(studentRepo, host, validate, logr, service.StudentServiceConfig{
		DefaultProfileImage: cfg.Media.DefaultProfileImage,
		MediaRoot:           cfg.Media.RootFolder,
		MediaTimeout:        cfg.Media.Timeout,
	})
	announcementSvc := service.NewAnnouncementService(announcementRepo, host, validate, logr, service.AnnouncementServiceConfig{
		RecentWindowDays: cfg.Announcements.RecentWindowDays,
		MediaRoot:        cfg.Media.RootFolder,
		MediaTimeout:     cfg.Media.Timeout,
	})

	igClient := instagram.New(cfg.Instagram.BaseURL, cfg.Instagram.APIVersion,
		cfg.Instagram.BusinessAccountID, cfg.Instagram.AccessToken,
		instagram.WithTimeout(cfg.Instagram.Timeout))
	if !cfg.Instagram.Configured() {
		logr.Warn("instagram credentials missing; feed endpoints will return errors")
	}
	instagramSvc := service.NewInstagramService(igClient, cacheSvc, metrics, cfg.Cache.InstagramTTL, logr)

	handlers := server.Handlers{
		Students:      handler.NewStudentHandler(studentSvc, cfg.Media.MaxUploadSize),
		Announcements: handler.NewAnnouncementHandler(announcementSvc, cfg.Media.MaxUploadSize),
		Instagram:     handler.NewInstagramHandler(instagramSvc),
		Metrics: handler.NewMetricsHandler(metrics, func(ctx context.Context) error {
			return database.Ping(ctx, client)
		}),
	}

	router := server.NewRouter(server.RouterOptions{
		Env:            cfg.Env,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		UploadsDir:     uploadsDir,
	}, handlers, metrics, logr)

	logr.Sugar().Infow("server starting", "port", cfg.Port, "env", cfg.Env, "media", cfg.Media.Driver)
	if err := server.New(cfg.Port, router, logr).Run(ctx); err != nil {
		logr.Error("server stopped with error", zap.Error(err))
	}
}

func newCacheService(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.CacheService, func()) {
	disabled := service.NewCacheService(nil, metrics, cfg.Cache.InstagramTTL, logr, false)
	if !cfg.Cache.Enabled {
		return disabled, func() {}
	}
	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable; caching disabled", zap.Error(err))
		return disabled, func() {}
	}
	repo := repository.NewCacheRepository(rdb, logr)
	return service.NewCacheService(repo, metrics, cfg.Cache.InstagramTTL, logr, true), func() {
		if err := repo.Close(); err != nil {
			logr.Warn("redis close failed", zap.Error(err))
		}
	}
}

// newMediaHost returns the configured image host and, for the local driver, the directory to serve.
func newMediaHost(ctx context.Context, cfg config.MediaConfig) (media.Host, string, error) {
	switch cfg.Driver {
	case config.MediaDriverCloudinary, "":
		host, err := media.NewCloudinaryHost(cfg.Cloudinary)
		if err != nil {
			return nil, "", err
		}
		return host, "", nil
	case config.MediaDriverS3:
		host, err := media.NewS3Host(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return host, "", nil
	case config.MediaDriverLocal:
		store, err := storage.NewLocalStorage(cfg.Local.Dir)
		if err != nil {
			return nil, "", err
		}
		return media.NewLocalHost(store, cfg.Local.PublicBaseURL), store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}
