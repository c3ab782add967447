package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"plant-shop/config"
	"plant-shop/services"
	"plant-shop/storage"
)

// backup exportiert die plants-Tabelle einmalig nach S3 und rotiert alte Exporte.
func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	logging.Info("Starting plants backup...")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}
	if err := cfg.ValidateS3(); err != nil {
		logging.Fatal("S3 config incomplete", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := storage.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to open plant store", zap.Error(err))
	}

	bucket, err := storage.NewS3Bucket(ctx, cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	exporter := services.NewExportService(store, bucket, logging, cfg.ExportPrefix, cfg.ExportKeep)
	res, err := exporter.Run(ctx)
	if err != nil {
		logging.Fatal("Backup failed", zap.Error(err))
	}

	logging.Info("Backup completed",
		zap.String("link", res.Link),
		zap.Int("plants", res.Plants),
		zap.Strings("deleted", res.Deleted))
}
