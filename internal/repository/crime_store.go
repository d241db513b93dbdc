package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jengzang/safeguard-backend/internal/models"
)

// CrimeFileStore reads the geocoded crime dataset written by the geocoding job.
// The file is re-read on each call so a finished job is picked up without a restart.
type CrimeFileStore struct {
	path string
}

// NewCrimeFileStore creates a crime store over a JSON file
func NewCrimeFileStore(path string) *CrimeFileStore {
	return &CrimeFileStore{path: path}
}

// AllCrimes returns every record in the dataset. A missing file is an empty dataset.
func (s *CrimeFileStore) AllCrimes(ctx context.Context) ([]models.CrimeRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.CrimeRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read crime data: %w", err)
	}

	var crimes []models.CrimeRecord
	if err := json.Unmarshal(data, &crimes); err != nil {
		return nil, fmt.Errorf("failed to parse crime data %s: %w", s.path, err)
	}
	return crimes, nil
}

// WriteCrimes replaces the dataset atomically
func WriteCrimes(path string, crimes []models.CrimeRecord) error {
	data, err := json.MarshalIndent(crimes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode crime data: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write crime data: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace crime data: %w", err)
	}
	return nil
}

// ReadCrimeLocations reads the geocoding job input
func ReadCrimeLocations(path string) ([]models.CrimeLocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crime locations: %w", err)
	}

	var locations []models.CrimeLocation
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse crime locations %s: %w", path, err)
	}
	return locations, nil
}
