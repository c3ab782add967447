package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plant-shop/config"
	"plant-shop/models"
)

// GormStore implementiert PlantStore über GORM (PostgreSQL oder SQLite).
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore kapselt eine bestehende GORM-Verbindung.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// OpenDB öffnet die Datenbank passend zu cfg.DBDriver.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("driver %q is not backed by gorm", cfg.DBDriver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Open baut den PlantStore für die Konfiguration und führt bei Bedarf die Migration aus.
func Open(cfg *config.Config, log *zap.Logger) (PlantStore, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn("Using in-memory plant store, data is lost on restart.")
		return NewMemoryStore(), nil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to plants database.", zap.String("driver", cfg.DBDriver))

	if cfg.DBAutoMigrate {
		log.Info("Running database auto-migration...")
		if err := db.AutoMigrate(&models.Plant{}); err != nil {
			return nil, fmt.Errorf("auto-migrate plants: %w", err)
		}
	}
	return NewGormStore(db), nil
}

func (s *GormStore) ListPlants(ctx context.Context) ([]models.Plant, error) {
	plants := []models.Plant{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

func (s *GormStore) GetPlant(ctx context.Context, id uint) (*models.Plant, error) {
	var plant models.Plant
	if err := s.DB.WithContext(ctx).First(&plant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plant, nil
}

func (s *GormStore) CreatePlant(ctx context.Context, plant *models.Plant) error {
	// ID immer von der Datenbank vergeben lassen
	plant.ID = 0
	return s.DB.WithContext(ctx).Create(plant).Error
}

// UpdatePlant schreibt nur die im Patch gesetzten Spalten.
func (s *GormStore) UpdatePlant(ctx context.Context, id uint, patch models.PlantPatch) (*models.Plant, error) {
	var plant models.Plant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plant, id).Error; err != nil {
			return err
		}
		updates := patch.Updates()
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&plant).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&plant, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plant, nil
}

func (s *GormStore) DeletePlant(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Plant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
