package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jengzang/safeguard-backend/internal/models"
)

var pollColumns = []string{
	"id", "location", "latitude", "longitude", "cell_token", "is_safe", "comment",
	"unsafe_votes", "safe_votes", "created_at", "updated_at",
}

// PollRepository handles database operations for safety polls
type PollRepository struct {
	db *sql.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *sql.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Create inserts a new poll record
func (r *PollRepository) Create(ctx context.Context, poll *models.PollRecord) error {
	query, args, err := sq.Insert("safety_polls").
		Columns(pollColumns...).
		Values(
			poll.ID, poll.Location, nullableFloat(poll.Latitude), nullableFloat(poll.Longitude),
			poll.CellToken, boolToInt(poll.IsSafe), poll.Comment,
			poll.UnsafeVotes, poll.SafeVotes, toMillis(poll.CreatedAt), toMillis(poll.UpdatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build poll insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	return nil
}

// AddVote increments one side of an existing poll's tally
func (r *PollRepository) AddVote(ctx context.Context, id string, isSafe bool, comment string, now time.Time) error {
	column := "unsafe_votes"
	if isSafe {
		column = "safe_votes"
	}

	update := sq.Update("safety_polls").
		Set(column, sq.Expr(column+" + 1")).
		Set("is_safe", boolToInt(isSafe)).
		Set("updated_at", toMillis(now)).
		Where(sq.Eq{"id": id})
	if comment != "" {
		update = update.Set("comment", comment)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build poll update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to add vote: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NotFound("Poll not found")
	}
	return nil
}

// GetByID retrieves a poll by ID
func (r *PollRepository) GetByID(ctx context.Context, id string) (*models.PollRecord, error) {
	query, args, err := sq.Select(pollColumns...).From("safety_polls").
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build poll query: %w", err)
	}

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, models.NotFound("Poll not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return poll, nil
}

// FindLatestInCell returns the newest poll in the cell created at or after since
func (r *PollRepository) FindLatestInCell(ctx context.Context, cellToken string, since time.Time) (*models.PollRecord, error) {
	query, args, err := sq.Select(pollColumns...).From("safety_polls").
		Where(sq.Eq{"cell_token": cellToken}).
		Where(sq.GtOrEq{"created_at": toMillis(since)}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build poll query: %w", err)
	}

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, models.NotFound("Poll not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find poll in cell: %w", err)
	}
	return poll, nil
}

// List returns all polls, newest first
func (r *PollRepository) List(ctx context.Context) ([]models.PollRecord, error) {
	return r.query(ctx, sq.Select(pollColumns...).From("safety_polls").OrderBy("created_at DESC"))
}

// PollsSince returns polls created at or after since
func (r *PollRepository) PollsSince(ctx context.Context, since time.Time) ([]models.PollRecord, error) {
	return r.query(ctx, sq.Select(pollColumns...).From("safety_polls").
		Where(sq.GtOrEq{"created_at": toMillis(since)}))
}

func (r *PollRepository) query(ctx context.Context, b sq.SelectBuilder) ([]models.PollRecord, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build poll query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.PollRecord{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, *poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}

	return polls, nil
}

func scanPoll(row rowScanner) (*models.PollRecord, error) {
	var p models.PollRecord
	var lat, lon sql.NullFloat64
	var isSafe int
	var createdAt, updatedAt int64

	err := row.Scan(
		&p.ID, &p.Location, &lat, &lon, &p.CellToken, &isSafe, &p.Comment,
		&p.UnsafeVotes, &p.SafeVotes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Latitude = floatPtr(lat)
	p.Longitude = floatPtr(lon)
	p.IsSafe = isSafe != 0
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}
