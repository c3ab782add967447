package storage

import (
	"context"
	"sort"
	"sync"

	"plant-shop/models"
)

// MemoryStore hält Pflanzen im Prozess. IDs werden fortlaufend vergeben und nie wiederverwendet.
type MemoryStore struct {
	mu     sync.RWMutex
	plants map[uint]models.Plant
	lastID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plants: make(map[uint]models.Plant)}
}

func (s *MemoryStore) ListPlants(ctx context.Context) ([]models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plants := make([]models.Plant, 0, len(s.plants))
	for _, p := range s.plants {
		plants = append(plants, p)
	}
	sort.Slice(plants, func(i, j int) bool { return plants[i].ID < plants[j].ID })
	return plants, nil
}

func (s *MemoryStore) GetPlant(ctx context.Context, id uint) (*models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreatePlant(ctx context.Context, plant *models.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	plant.ID = s.lastID
	s.plants[plant.ID] = *plant
	return nil
}

func (s *MemoryStore) UpdatePlant(ctx context.Context, id uint, patch models.PlantPatch) (*models.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plants[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&p)
	s.plants[id] = p
	return &p, nil
}

func (s *MemoryStore) DeletePlant(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plants[id]; !ok {
		return ErrNotFound
	}
	delete(s.plants, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
