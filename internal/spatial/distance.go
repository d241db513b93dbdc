package spatial

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// PollCellLevel is the S2 level used to bucket poll votes (~150 m cells)
	PollCellLevel = 16
)

// ValidCoordinate reports whether lat/lon are inside [-90,90] x [-180,180]
func ValidCoordinate(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// CellToken returns the token of the S2 cell at the given level containing the point
func CellToken(lat, lon float64, level int) string {
	id := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon))
	return id.Parent(level).ToToken()
}

// MapsLink formats a Google Maps link for SMS bodies
func MapsLink(lat, lon float64) string {
	return fmt.Sprintf("https://maps.google.com/?q=%.6f,%.6f", lat, lon)
}
