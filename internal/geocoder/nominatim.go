// Package geocoder resolves free-text locations to coordinates through a
// Nominatim-compatible search API.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoResult is returned when the geocoder finds nothing for the query
var ErrNoResult = errors.New("location not found")

// Result is one geocoding match
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Client queries /search on a Nominatim server.
type Client struct {
	baseURL   string
	userAgent string
	city      string
	country   string
	client    *http.Client
}

// NewClient creates a Nominatim client. city and country are appended to every query.
func NewClient(baseURL, userAgent, city, country string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		city:      city,
		country:   country,
		client:    &http.Client{Timeout: timeout},
	}
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Query builds the "<locality>, <city>, <country>" search string
func (c *Client) Query(locality string) string {
	parts := []string{strings.TrimSpace(locality)}
	if c.city != "" {
		parts = append(parts, c.city)
	}
	if c.country != "" {
		parts = append(parts, c.country)
	}
	return strings.Join(parts, ", ")
}

// Geocode returns the best match for locality
func (c *Client) Geocode(ctx context.Context, locality string) (*Result, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", c.Query(locality))
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build geocode request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "geocode request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, errors.Wrap(err, "decode geocode response")
	}
	if len(hits) == 0 {
		return nil, ErrNoResult
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parse latitude")
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parse longitude")
	}

	return &Result{Latitude: lat, Longitude: lon, DisplayName: hits[0].DisplayName}, nil
}
