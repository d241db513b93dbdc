package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/internal/spatial"
)

// MaxNewsDays bounds the lookback of Recent
const MaxNewsDays = 365

// NewsService ingests geocoded news mentions
type NewsService struct {
	news     NewsStore
	geocoder Geocoder
	log      *zap.Logger
	now      func() time.Time
}

// NewNewsService creates a new news service. geocoder may be nil.
func NewNewsService(news NewsStore, geocoder Geocoder, log *zap.Logger) *NewsService {
	return &NewsService{news: news, geocoder: geocoder, log: log, now: time.Now}
}

// Submit stores a news mention, geocoding its location when no coordinates were sent.
// A geocoding miss stores the record without coordinates.
func (s *NewsService) Submit(ctx context.Context, sub models.NewsSubmission) (*models.NewsRecord, error) {
	headline := strings.TrimSpace(sub.Headline)
	location := strings.TrimSpace(sub.Location)
	if headline == "" {
		return nil, models.Validation("headline is required")
	}
	if location == "" {
		return nil, models.Validation("location is required")
	}
	if (sub.Latitude == nil) != (sub.Longitude == nil) {
		return nil, models.Validation("latitude and longitude must be sent together")
	}
	if sub.Latitude != nil && !spatial.ValidCoordinate(*sub.Latitude, *sub.Longitude) {
		return nil, models.Validation("Invalid coordinates")
	}

	record := &models.NewsRecord{
		ID:        uuid.NewString(),
		Headline:  headline,
		Location:  location,
		Latitude:  sub.Latitude,
		Longitude: sub.Longitude,
		SourceURL: strings.TrimSpace(sub.SourceURL),
		CreatedAt: s.now().UTC(),
	}
	if sub.PublishedAt != nil && !sub.PublishedAt.IsZero() {
		record.CreatedAt = sub.PublishedAt.UTC()
	}

	if record.Latitude == nil && s.geocoder != nil {
		res, err := s.geocoder.Geocode(ctx, location)
		if err != nil {
			s.log.Warn("Could not geocode news location", zap.String("location", location), zap.Error(err))
		} else {
			record.Latitude = &res.Latitude
			record.Longitude = &res.Longitude
		}
	}

	if err := s.news.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Recent returns mentions from the last days days, newest first
func (s *NewsService) Recent(ctx context.Context, days int) ([]models.NewsRecord, error) {
	if days <= 0 || days > MaxNewsDays {
		return nil, models.Validation("days must be between 1 and 365")
	}
	return s.news.NewsSince(ctx, s.now().Add(-time.Duration(days)*24*time.Hour))
}
