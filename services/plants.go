package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"plant-shop/models"
	"plant-shop/storage"
)

// ErrPlantNotFound wird geliefert, wenn zu einer ID keine Pflanze existiert.
var ErrPlantNotFound = storage.ErrNotFound

// NotFoundError trägt die angefragte ID für die Fehlermeldung.
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Plant with id %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrPlantNotFound }

// MissingFieldError: Pflichtfeld fehlt beim Anlegen.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// InvalidFieldError: Feld ist gesetzt, aber nicht verwendbar (z.B. null).
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// PlantService kapselt den Lebenszyklus einer Pflanze. Er hält keinen eigenen Zustand,
// alles liegt im Store.
type PlantService struct {
	Store  storage.PlantStore
	Logger *zap.Logger
}

// NewPlantService erstellt eine neue Instanz des PlantService.
func NewPlantService(store storage.PlantStore, logger *zap.Logger) *PlantService {
	return &PlantService{Store: store, Logger: logger}
}

func (s *PlantService) List(ctx context.Context) ([]models.Plant, error) {
	return s.Store.ListPlants(ctx)
}

func (s *PlantService) Get(ctx context.Context, id uint) (*models.Plant, error) {
	plant, err := s.Store.GetPlant(ctx, id)
	return plant, s.wrapNotFound(id, err)
}

// Create prüft, dass alle vier Felder gesendet wurden, und legt die Pflanze an.
func (s *PlantService) Create(ctx context.Context, in models.PlantInput) (*models.Plant, error) {
	name, ok := in.Name.Get()
	if !ok {
		return nil, &MissingFieldError{Field: "name"}
	}
	image, ok := in.Image.Get()
	if !ok {
		return nil, &MissingFieldError{Field: "image"}
	}
	price, ok := in.Price.Get()
	if !ok {
		return nil, &MissingFieldError{Field: "price"}
	}
	inStock, ok := in.IsInStock.Get()
	if !ok {
		return nil, &MissingFieldError{Field: "is_in_stock"}
	}

	plant := &models.Plant{Name: name, Image: image, Price: price, IsInStock: inStock}
	if err := s.Store.CreatePlant(ctx, plant); err != nil {
		return nil, err
	}
	s.Logger.Info("Plant created", zap.Uint("id", plant.ID), zap.String("name", plant.Name))
	return plant, nil
}

// Update überschreibt nur die gesendeten Felder (Merge-Patch).
func (s *PlantService) Update(ctx context.Context, id uint, patch models.PlantPatch) (*models.Plant, error) {
	if err := validatePatch(patch); err != nil {
		// Zuerst Existenz prüfen, damit eine fehlende ID immer 404 ergibt
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, err
	}
	plant, err := s.Store.UpdatePlant(ctx, id, patch)
	if err != nil {
		return nil, s.wrapNotFound(id, err)
	}
	s.Logger.Info("Plant updated", zap.Uint("id", id), zap.Int("fields", len(patch.Updates())))
	return plant, nil
}

func (s *PlantService) Delete(ctx context.Context, id uint) error {
	if err := s.wrapNotFound(id, s.Store.DeletePlant(ctx, id)); err != nil {
		return err
	}
	s.Logger.Info("Plant deleted", zap.Uint("id", id))
	return nil
}

func (s *PlantService) wrapNotFound(id uint, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return err
}

func validatePatch(p models.PlantPatch) error {
	switch {
	case p.Name.Null:
		return &InvalidFieldError{Field: "name", Reason: "must not be null"}
	case p.Image.Null:
		return &InvalidFieldError{Field: "image", Reason: "must not be null"}
	case p.Price.Null:
		return &InvalidFieldError{Field: "price", Reason: "must not be null"}
	case p.IsInStock.Null:
		return &InvalidFieldError{Field: "is_in_stock", Reason: "must not be null"}
	}
	return nil
}
