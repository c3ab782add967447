package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"plant-shop/config"
	"plant-shop/services"
	"plant-shop/storage"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	store, err := storage.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to open plant store", zap.Error(err))
	}

	plantService := services.NewPlantService(store, logging)
	router := newRouter(plantService, store, logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ExportEnabled() {
		cronScheduler, err := setupExportCron(ctx, cfg, store, logging)
		if err != nil {
			logging.Fatal("Failed to set up export job", zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// setupExportCron registriert den periodischen Export der plants-Tabelle nach S3.
func setupExportCron(ctx context.Context, cfg *config.Config, store storage.PlantStore, logging *zap.Logger) (*cron.Cron, error) {
	bucket, err := storage.NewS3Bucket(ctx, cfg)
	if err != nil {
		return nil, err
	}
	exporter := services.NewExportService(store, bucket, logging, cfg.ExportPrefix, cfg.ExportKeep)

	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc(cfg.ExportSchedule, func() {
		logging.Info("Running scheduled plants export...")
		res, err := exporter.Run(ctx)
		if err != nil {
			exportsCounter.WithLabelValues("error").Inc()
			logging.Error("Export job failed", zap.Error(err))
			return
		}
		exportsCounter.WithLabelValues("success").Inc()
		logging.Info("Export job completed",
			zap.String("key", res.Key),
			zap.Int("plants", res.Plants),
			zap.Strings("deleted", res.Deleted))
	})
	if err != nil {
		return nil, err
	}
	logging.Info("Export job scheduled", zap.String("schedule", cfg.ExportSchedule))
	return cronScheduler, nil
}
