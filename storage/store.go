package storage

import (
	"context"
	"errors"

	"plant-shop/models"
)

// ErrNotFound wird geliefert, wenn zu einer ID keine Zeile existiert.
var ErrNotFound = errors.New("plant not found")

// PlantStore ist die Persistenzschicht für Pflanzen. Jede schreibende Operation
// ist sofort committed und für folgende Lesezugriffe sichtbar.
type PlantStore interface {
	ListPlants(ctx context.Context) ([]models.Plant, error)
	GetPlant(ctx context.Context, id uint) (*models.Plant, error)
	// CreatePlant vergibt eine neue ID und schreibt sie in plant.ID.
	CreatePlant(ctx context.Context, plant *models.Plant) error
	UpdatePlant(ctx context.Context, id uint, patch models.PlantPatch) (*models.Plant, error)
	DeletePlant(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
}
