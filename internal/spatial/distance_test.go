package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(18.5204, 73.8567))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.False(t, ValidCoordinate(91, 0))
	assert.False(t, ValidCoordinate(0, 181))
}

func TestHaversineDistance(t *testing.T) {
	// FC Road to Camp, Pune: roughly 1.6 km apart
	d := HaversineDistance(18.5204, 73.8567, 18.5216, 73.8718)
	assert.InDelta(t, 1600, d, 100)
	assert.Zero(t, HaversineDistance(18.5, 73.8, 18.5, 73.8))
}

func TestCellToken(t *testing.T) {
	a := CellToken(18.52040, 73.85670, PollCellLevel)
	b := CellToken(18.52041, 73.85671, PollCellLevel)
	far := CellToken(18.6404, 73.7917, PollCellLevel)

	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, far)
}

func TestMapsLink(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=18.520400,73.856700", MapsLink(18.5204, 73.8567))
}
