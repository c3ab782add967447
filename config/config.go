package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Unterstützte Datenbank-Treiber.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"5555"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	DBDriver      string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath        string `envconfig:"DB_PATH" default:"plants.db"`
	DBHost        string `envconfig:"DB_HOST"`
	DBPort        int    `envconfig:"DB_PORT" default:"5432"`
	DBUser        string `envconfig:"DB_USER"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	// Export der plants-Tabelle nach S3, leerer Schedule deaktiviert den Cron-Job
	ExportSchedule string `envconfig:"EXPORT_SCHEDULE"`
	ExportPrefix   string `envconfig:"EXPORT_PREFIX" default:"plants/"`
	ExportKeep     int    `envconfig:"EXPORT_KEEP" default:"4"`

	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION"`
	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3Bucket string `envconfig:"S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ExportEnabled meldet, ob der periodische Export laufen soll.
func (c *Config) ExportEnabled() bool {
	return c.ExportSchedule != ""
}

// Validate prüft die Abhängigkeiten zwischen den Feldern, die envconfig allein nicht abbilden kann.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.ExportKeep < 1 {
		return fmt.Errorf("EXPORT_KEEP must be at least 1, got %d", c.ExportKeep)
	}
	if c.ExportEnabled() {
		return c.ValidateS3()
	}
	return nil
}

// ValidateS3 prüft die S3-Zugangsdaten, die für jeden Export gebraucht werden.
func (c *Config) ValidateS3() error {
	if c.S3URL == "" || c.S3Region == "" || c.S3Key == "" || c.S3Secret == "" || c.S3Bucket == "" {
		return errors.New("S3_URL, S3_REGION, S3_KEY, S3_SECRET and S3_BUCKET are required for exports")
	}
	return nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
