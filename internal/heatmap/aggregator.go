// Package heatmap merges crime, poll and news signals into weighted map points.
package heatmap

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/safeguard-backend/internal/models"
)

// Weight policy. These are product constants, not configuration.
const (
	CrimeWeight     = 0.8
	NewsWeight      = 0.3
	PollWeightScale = 0.6

	// RecencyWindow bounds poll and news records. Crime data is a static baseline.
	RecencyWindow = 30 * 24 * time.Hour
)

// CrimeSource returns the full geocoded crime dataset
type CrimeSource interface {
	AllCrimes(ctx context.Context) ([]models.CrimeRecord, error)
}

// PollSource returns poll records created at or after since
type PollSource interface {
	PollsSince(ctx context.Context, since time.Time) ([]models.PollRecord, error)
}

// NewsSource returns news records created at or after since
type NewsSource interface {
	NewsSince(ctx context.Context, since time.Time) ([]models.NewsRecord, error)
}

// Aggregator builds heatmap points from its three sources.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	crimes CrimeSource
	polls  PollSource
	news   NewsSource
}

// NewAggregator creates a new heatmap aggregator
func NewAggregator(crimes CrimeSource, polls PollSource, news NewsSource) *Aggregator {
	return &Aggregator{crimes: crimes, polls: polls, news: news}
}

// Aggregate returns every currently relevant risk point as of now.
// Any source failure aborts the whole aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, now time.Time) ([]models.HeatmapPoint, error) {
	since := now.Add(-RecencyWindow)

	crimes, err := a.crimes.AllCrimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load crime data: %w", err)
	}

	polls, err := a.polls.PollsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll data: %w", err)
	}

	news, err := a.news.NewsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load news data: %w", err)
	}

	points := make([]models.HeatmapPoint, 0, len(crimes)+len(polls)+len(news))

	for _, crime := range crimes {
		if crime.Latitude == nil || crime.Longitude == nil {
			continue
		}
		points = append(points, models.HeatmapPoint{
			Latitude:  *crime.Latitude,
			Longitude: *crime.Longitude,
			Weight:    CrimeWeight,
			Type:      models.PointTypeCrime,
			Location:  crime.LocationString,
			Timestamp: string(crime.Timestamp),
		})
	}

	for _, poll := range polls {
		if poll.Latitude == nil || poll.Longitude == nil {
			continue
		}
		weight, ok := PollWeight(poll.UnsafeVotes, poll.SafeVotes)
		if !ok {
			continue
		}
		points = append(points, models.HeatmapPoint{
			Latitude:  *poll.Latitude,
			Longitude: *poll.Longitude,
			Weight:    weight,
			Type:      models.PointTypePoll,
			Location:  poll.Location,
			Timestamp: formatTime(poll.CreatedAt),
		})
	}

	for _, item := range news {
		if item.Latitude == nil || item.Longitude == nil {
			continue
		}
		points = append(points, models.HeatmapPoint{
			Latitude:  *item.Latitude,
			Longitude: *item.Longitude,
			Weight:    NewsWeight,
			Type:      models.PointTypeNews,
			Location:  item.Location,
			Timestamp: formatTime(item.CreatedAt),
		})
	}

	return points, nil
}

// PollWeight scales the unsafe-vote share into [0, PollWeightScale].
// ok is false when the tally has no votes or a negative count.
func PollWeight(unsafeVotes, safeVotes int) (weight float64, ok bool) {
	if unsafeVotes < 0 || safeVotes < 0 {
		return 0, false
	}
	total := unsafeVotes + safeVotes
	if total == 0 {
		return 0, false
	}
	return float64(unsafeVotes) / float64(total) * PollWeightScale, true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
