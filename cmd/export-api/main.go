package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/audit"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/storage"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/modules/stockman/handlers"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/config"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/database"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/stockman-export/cmd/export-api/docs"
)

// @title Stockman Export API
// @version 1.0
// @description Excel and PDF exports for the Stockman console
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting export-api")

	provider, err := newStorageProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to init storage provider")
	}
	log.Info().Str("provider", provider.GetProviderName()).Msg("📦 Storage ready")

	downloads := storage.NewDownloads(provider, cfg.ExportTTL)
	defer downloads.Close()

	sweeper, err := storage.NewSweeper(downloads, cfg.ExportSweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.ExportSweepSchedule).Msg("❌ Invalid sweep schedule")
	}
	sweeper.Start()
	defer sweeper.Stop()

	var recorder audit.Recorder = audit.NopRecorder{}
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL, !cfg.IsProduction())
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to connect database")
		}
		defer db.Close()
		recorder = audit.NewService(db.GORM)
	} else {
		log.Warn().Msg("⚠️  DATABASE_URL not set, activity journal disabled")
	}

	exportHandler := handlers.NewExportHandler(export.NewService(), downloads, recorder, handlers.Defaults{
		Currency:  cfg.DefaultCurrency,
		StoreName: cfg.StoreName,
		BaseURL:   cfg.ExportBaseURL,
	})
	healthHandler := handlers.NewHealthHandler(downloads)

	app := fiber.New(fiber.Config{
		AppName:   "Stockman Export API",
		BodyLimit: 32 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		ExposeHeaders: fiber.HeaderContentDisposition,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	handlers.Register(app, healthHandler, exportHandler)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info().Msg("🛑 Shutting down export-api...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Shutdown failed")
		}
	}()

	log.Info().Msgf("✅ export-api running at :%s", cfg.Port)
	log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("❌ Server stopped")
	}
}

func newStorageProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.StorageProvider {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3Provider(ctx, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSRegion, cfg.AWSBucketName)
	default:
		return storage.NewLocalProvider(cfg.ExportDir)
	}
}
