package main

import (
	"context"
	"log"

	"jibal-shipping/archive"
	"jibal-shipping/config"
	"jibal-shipping/database"
	"jibal-shipping/idgen"
	"jibal-shipping/logger"
	"jibal-shipping/middleware"
	"jibal-shipping/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	logger.Init(config.APP_MODE, logger.Options{
		Dir:        config.LogDir,
		MaxSizeMB:  config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
		MaxAgeDays: config.LogMaxAgeDays,
	})
	defer logger.Sync()

	if err := idgen.Init(config.NodeID); err != nil {
		log.Fatalf("Failed to init id generator: %v", err)
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	if err := database.RunSeeders(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	var archiver archive.Archiver
	if config.ReportArchiveBucket != "" {
		s3Archiver, err := archive.NewS3Archiver(context.Background(), archive.Options{
			Bucket:          config.ReportArchiveBucket,
			Region:          config.AWSRegion,
			AccessKeyID:     config.AWSAccessKeyID,
			SecretAccessKey: config.AWSSecretAccessKey,
			Endpoint:        config.AWSEndpoint,
		})
		if err != nil {
			log.Fatalf("Failed to init report archive: %v", err)
		}
		archiver = s3Archiver
		logger.Infow("report archive enabled", "bucket", config.ReportArchiveBucket)
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.RequestLogger())

	config.SetupCORS(app)
	routes.Setup(app, db, archiver)

	port := config.APP_PORT
	logger.Infow("server starting", "port", port, "mode", config.APP_MODE, "db_driver", config.DBDriver)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
