package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jengzang/safeguard-backend/internal/models"
)

// MemoryHeatmapStore is an in-process implementation of the three heatmap sources
type MemoryHeatmapStore struct {
	mu     sync.RWMutex
	crimes []models.CrimeRecord
	polls  []models.PollRecord
	news   []models.NewsRecord
}

// NewMemoryHeatmapStore creates an empty store
func NewMemoryHeatmapStore() *MemoryHeatmapStore {
	return &MemoryHeatmapStore{}
}

// AddCrime appends a crime record
func (s *MemoryHeatmapStore) AddCrime(c models.CrimeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crimes = append(s.crimes, c)
}

// AddPoll appends a poll record
func (s *MemoryHeatmapStore) AddPoll(p models.PollRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls = append(s.polls, p)
}

// AddNews appends a news record
func (s *MemoryHeatmapStore) AddNews(n models.NewsRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = append(s.news, n)
}

// AllCrimes returns a copy of all crime records
func (s *MemoryHeatmapStore) AllCrimes(ctx context.Context) ([]models.CrimeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CrimeRecord{}, s.crimes...), nil
}

// PollsSince returns polls created at or after since
func (s *MemoryHeatmapStore) PollsSince(ctx context.Context, since time.Time) ([]models.PollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.PollRecord{}
	for _, p := range s.polls {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

// NewsSince returns news created at or after since
func (s *MemoryHeatmapStore) NewsSince(ctx context.Context, since time.Time) ([]models.NewsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.NewsRecord{}
	for _, n := range s.news {
		if !n.CreatedAt.Before(since) {
			out = append(out, n)
		}
	}
	return out, nil
}
