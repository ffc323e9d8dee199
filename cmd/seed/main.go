package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-website-api/internal/repository"
	"github.com/noah-isme/school-website-api/internal/seed"
	"github.com/noah-isme/school-website-api/pkg/config"
	"github.com/noah-isme/school-website-api/pkg/database"
	"github.com/noah-isme/school-website-api/pkg/logger"
)

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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.NewMongo(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck

	db := client.Database(cfg.Database.Name)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logr.Warn("ensure indexes failed", zap.Error(err))
	}

	_, err = seed.Run(ctx,
		repository.NewStudentRepository(db, nil),
		repository.NewAnnouncementRepository(db, nil),
		time.Now(), logr)
	if err != nil {
		logr.Fatal("seeding failed", zap.Error(err))
	}
}
