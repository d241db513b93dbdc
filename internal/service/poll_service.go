package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/heatmap"
	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/spatial"
)

// PollService records community safety votes
type PollService struct {
	polls PollStore
	log   *zap.Logger
	now   func() time.Time

	// serializes find-then-merge so concurrent votes for one cell land in one poll
	mu sync.Mutex
}

// NewPollService creates a new poll service
func NewPollService(polls PollStore, log *zap.Logger) *PollService {
	return &PollService{polls: polls, log: log, now: time.Now}
}

// Submit records one vote. It is merged into the newest poll of the same S2 cell
// created within the heatmap recency window, or starts a new poll otherwise.
func (s *PollService) Submit(ctx context.Context, sub models.PollSubmission) (*models.PollRecord, error) {
	switch {
	case sub.Location == nil:
		return nil, models.Validation("location is required")
	case sub.Latitude == nil:
		return nil, models.Validation("latitude is required")
	case sub.Longitude == nil:
		return nil, models.Validation("longitude is required")
	case sub.IsSafe == nil:
		return nil, models.Validation("is_safe is required")
	}

	lat, lon := *sub.Latitude, *sub.Longitude
	if !spatial.ValidCoordinate(lat, lon) {
		return nil, models.Validation("Latitude and longitude must be valid coordinates")
	}

	now := s.now().UTC()
	isSafe := *sub.IsSafe
	comment := strings.TrimSpace(sub.Comment)
	cell := spatial.CellToken(lat, lon, spatial.PollCellLevel)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.polls.FindLatestInCell(ctx, cell, now.Add(-heatmap.RecencyWindow))
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	if existing != nil {
		if err := s.polls.AddVote(ctx, existing.ID, isSafe, comment, now); err != nil {
			return nil, err
		}
		fields := []zap.Field{zap.String("poll_id", existing.ID), zap.String("cell", cell)}
		if existing.Latitude != nil && existing.Longitude != nil {
			fields = append(fields, zap.Float64("distance_m", spatial.HaversineDistance(lat, lon, *existing.Latitude, *existing.Longitude)))
		}
		s.log.Debug("Vote merged into poll", fields...)
		return s.polls.GetByID(ctx, existing.ID)
	}

	poll := &models.PollRecord{
		ID:        uuid.NewString(),
		Location:  strings.TrimSpace(*sub.Location),
		Latitude:  &lat,
		Longitude: &lon,
		CellToken: cell,
		IsSafe:    isSafe,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if isSafe {
		poll.SafeVotes = 1
	} else {
		poll.UnsafeVotes = 1
	}

	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// List returns all polls, newest first
func (s *PollService) List(ctx context.Context) ([]models.PollRecord, error) {
	return s.polls.List(ctx)
}
