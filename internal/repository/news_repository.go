package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jengzang/safeguard-backend/internal/models"
)

var newsColumns = []string{"id", "headline", "location", "latitude", "longitude", "source_url", "created_at"}

// NewsRepository handles database operations for news mentions
type NewsRepository struct {
	db *sql.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create inserts a news record
func (r *NewsRepository) Create(ctx context.Context, news *models.NewsRecord) error {
	query, args, err := sq.Insert("news_records").
		Columns(newsColumns...).
		Values(
			news.ID, news.Headline, news.Location,
			nullableFloat(news.Latitude), nullableFloat(news.Longitude),
			news.SourceURL, toMillis(news.CreatedAt),
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build news insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create news record: %w", err)
	}
	return nil
}

// NewsSince returns news created at or after since, newest first
func (r *NewsRepository) NewsSince(ctx context.Context, since time.Time) ([]models.NewsRecord, error) {
	query, args, err := sq.Select(newsColumns...).From("news_records").
		Where(sq.GtOrEq{"created_at": toMillis(since)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build news query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	news := []models.NewsRecord{}
	for rows.Next() {
		var n models.NewsRecord
		var lat, lon sql.NullFloat64
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Headline, &n.Location, &lat, &lon, &n.SourceURL, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan news record: %w", err)
		}
		n.Latitude = floatPtr(lat)
		n.Longitude = floatPtr(lon)
		n.CreatedAt = fromMillis(createdAt)
		news = append(news, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news: %w", err)
	}

	return news, nil
}
