package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/repository"
)

const interruptedMessage = "Task interrupted by server restart"

// GeocodingConfig points the batch job at its files
type GeocodingConfig struct {
	InputFile  string
	OutputFile string
	Delay      time.Duration // pause between geocoder requests
}

// GeocodingService turns the raw crime location list into the geocoded dataset
// the heatmap reads, tracking each run as a task.
type GeocodingService struct {
	repo     GeocodingTaskStore
	geocoder Geocoder
	cfg      GeocodingConfig
	log      *zap.Logger

	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	wg      sync.WaitGroup
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(repo GeocodingTaskStore, geocoder Geocoder, cfg GeocodingConfig, log *zap.Logger) *GeocodingService {
	return &GeocodingService{
		repo:     repo,
		geocoder: geocoder,
		cfg:      cfg,
		log:      log,
		cancels:  make(map[int]context.CancelFunc),
	}
}

func (s *GeocodingService) newTask(ctx context.Context, createdBy, input, output string) (*models.GeocodingTask, error) {
	task := &models.GeocodingTask{
		Status:     models.TaskStatusPending,
		InputFile:  input,
		OutputFile: output,
		CreatedBy:  createdBy,
	}
	if err := s.repo.CreateIfIdle(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// RecoverInterrupted fails tasks a previous process left pending or running.
// Call it before serving, while no task of this process can be active.
func (s *GeocodingService) RecoverInterrupted(ctx context.Context) error {
	n, err := s.repo.FailActive(ctx, interruptedMessage)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Warn("Marked interrupted geocoding tasks as failed", zap.Int("tasks", n))
	}
	return nil
}

// CreateTask creates a task over the configured files and runs it in the background
func (s *GeocodingService) CreateTask(ctx context.Context, createdBy string) (*models.GeocodingTask, error) {
	task, err := s.newTask(ctx, createdBy, s.cfg.InputFile, s.cfg.OutputFile)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[task.ID] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.cancels, task.ID)
			s.mu.Unlock()
			cancel()
		}()

		if err := s.execute(runCtx, task); err != nil {
			s.log.Error("Geocoding task failed", zap.Int("task_id", task.ID), zap.Error(err))
		}
	}()

	return task, nil
}

// RunTask creates a task over the given files and runs it to completion
func (s *GeocodingService) RunTask(ctx context.Context, createdBy, input, output string) (*models.GeocodingTask, error) {
	task, err := s.newTask(ctx, createdBy, input, output)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, task); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, task.ID)
}

// execute geocodes every location of the task input. Individual lookup failures are
// counted and skipped; a task fails only when its files cannot be read or written.
func (s *GeocodingService) execute(ctx context.Context, task *models.GeocodingTask) error {
	// status writes must land even after ctx is cancelled
	bg := context.WithoutCancel(ctx)

	fail := func(err error) error {
		if markErr := s.repo.MarkAsFailed(bg, task.ID, err.Error()); markErr != nil {
			s.log.Error("Failed to mark task as failed", zap.Int("task_id", task.ID), zap.Error(markErr))
		}
		return err
	}

	if err := s.repo.MarkAsRunning(bg, task.ID); err != nil {
		return err
	}

	locations, err := repository.ReadCrimeLocations(task.InputFile)
	if err != nil {
		return fail(err)
	}
	if err := s.repo.SetTotal(bg, task.ID, len(locations)); err != nil {
		return fail(err)
	}

	s.log.Info("Geocoding started", zap.Int("task_id", task.ID), zap.Int("locations", len(locations)))

	crimes := make([]models.CrimeRecord, 0, len(locations))
	processed, failed := 0, 0
	for i, loc := range locations {
		if i > 0 && s.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return fail(fmt.Errorf("task cancelled: %w", ctx.Err()))
			case <-time.After(s.cfg.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("task cancelled: %w", err))
		}

		res, err := s.geocoder.Geocode(ctx, loc.LocationString)
		if err != nil {
			failed++
			s.log.Warn("Could not geocode location", zap.String("location", loc.LocationString), zap.Error(err))
		} else {
			processed++
			lat, lon := res.Latitude, res.Longitude
			crimes = append(crimes, models.CrimeRecord{
				Latitude:       &lat,
				Longitude:      &lon,
				LocationString: loc.LocationString,
				FullAddress:    res.DisplayName,
				IncidentType:   loc.IncidentType,
				Timestamp:      models.FlexStringFromFloat(float64(time.Now().UnixMilli()) / 1000),
			})
		}

		if err := s.repo.UpdateProgress(bg, task.ID, processed, failed); err != nil {
			s.log.Warn("Failed to update task progress", zap.Int("task_id", task.ID), zap.Error(err))
		}
	}

	// a run where nothing resolved (geocoder down, rate limited) must not replace the live dataset
	if processed == 0 && len(locations) > 0 {
		return fail(models.Upstream(fmt.Sprintf(
			"none of the %d locations could be geocoded, %s left unchanged", len(locations), task.OutputFile)))
	}

	if err := repository.WriteCrimes(task.OutputFile, crimes); err != nil {
		return fail(err)
	}
	if err := s.repo.MarkAsCompleted(bg, task.ID); err != nil {
		return err
	}

	s.log.Info("Geocoding completed",
		zap.Int("task_id", task.ID),
		zap.Int("processed", processed),
		zap.Int("failed", failed))
	return nil
}

// GetTask retrieves a task by ID
func (s *GeocodingService) GetTask(ctx context.Context, id int) (*models.GeocodingTask, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTasks retrieves all tasks with optional status filter
func (s *GeocodingService) ListTasks(ctx context.Context, status string, limit int, offset int) ([]*models.GeocodingTask, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, status, limit, offset)
}

// CancelTask stops a running task
func (s *GeocodingService) CancelTask(ctx context.Context, id int) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if task.IsTerminal() {
		return models.Validation(fmt.Sprintf("task is already in terminal state: %s", task.Status))
	}

	s.mu.Lock()
	cancel, running := s.cancels[id]
	s.mu.Unlock()
	if running {
		cancel()
		return nil
	}

	return s.repo.MarkAsFailed(ctx, id, "Task cancelled by user")
}

// Wait blocks until background tasks have returned
func (s *GeocodingService) Wait() {
	s.wg.Wait()
}

// Stop cancels every background task and waits for them to return
func (s *GeocodingService) Stop() {
	s.mu.Lock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
