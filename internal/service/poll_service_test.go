package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/database"
	"github.com/jengzang/safeguard-backend/internal/heatmap"
	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/repository"
	"github.com/jengzang/safeguard-backend/internal/spatial"
)

func pollSubmission(isSafe bool) models.PollSubmission {
	location := "FC Road"
	lat, lon := 18.5236, 73.8478
	return models.PollSubmission{Location: &location, Latitude: &lat, Longitude: &lon, IsSafe: &isSafe}
}

func TestPollService_CreatesNewPoll(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cell := spatial.CellToken(18.5236, 73.8478, spatial.PollCellLevel)

	polls := new(MockPollStore)
	polls.On("FindLatestInCell", mock.Anything, cell, now.Add(-heatmap.RecencyWindow)).
		Return(nil, models.NotFound("Poll not found"))
	polls.On("Create", mock.Anything, mock.AnythingOfType("*models.PollRecord")).Return(nil).Once()

	svc := NewPollService(polls, zap.NewNop())
	svc.now = func() time.Time { return now }

	poll, err := svc.Submit(context.Background(), pollSubmission(false))
	require.NoError(t, err)
	assert.Equal(t, 1, poll.UnsafeVotes)
	assert.Equal(t, 0, poll.SafeVotes)
	assert.Equal(t, cell, poll.CellToken)
	assert.Equal(t, now, poll.CreatedAt)
	polls.AssertExpectations(t)
}

func TestPollService_MergesIntoExistingCell(t *testing.T) {
	existing := &models.PollRecord{ID: "p1", UnsafeVotes: 2, SafeVotes: 1}
	merged := &models.PollRecord{ID: "p1", UnsafeVotes: 2, SafeVotes: 2}

	polls := new(MockPollStore)
	polls.On("FindLatestInCell", mock.Anything, mock.Anything, mock.Anything).Return(existing, nil)
	polls.On("AddVote", mock.Anything, "p1", true, "", mock.Anything).Return(nil).Once()
	polls.On("GetByID", mock.Anything, "p1").Return(merged, nil)

	poll, err := NewPollService(polls, zap.NewNop()).Submit(context.Background(), pollSubmission(true))
	require.NoError(t, err)
	assert.Equal(t, 2, poll.SafeVotes)
	polls.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	polls.AssertExpectations(t)
}

func TestPollService_Validation(t *testing.T) {
	svc := NewPollService(new(MockPollStore), zap.NewNop())

	sub := pollSubmission(true)
	sub.IsSafe = nil
	_, err := svc.Submit(context.Background(), sub)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, "is_safe is required", err.Error())

	sub = pollSubmission(true)
	bad := 200.0
	sub.Longitude = &bad
	_, err = svc.Submit(context.Background(), sub)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestPollService_StoreErrorPropagates(t *testing.T) {
	polls := new(MockPollStore)
	polls.On("FindLatestInCell", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("disk I/O error"))

	_, err := NewPollService(polls, zap.NewNop()).Submit(context.Background(), pollSubmission(true))
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrValidation))
}

func TestPollService_ConcurrentVotesShareOnePoll(t *testing.T) {
	db, err := database.Open(database.Config{Path: database.MemoryPath}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db, zap.NewNop()).RunMigrations())

	polls := repository.NewPollRepository(db)
	svc := NewPollService(polls, zap.NewNop())

	const voters = 16
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), pollSubmission(i%4 == 0))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := polls.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 4, all[0].SafeVotes)
	assert.Equal(t, 12, all[0].UnsafeVotes)
}
