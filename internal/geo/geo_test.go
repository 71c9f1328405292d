package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	// Tokyo Station Yaesu exit to the in-station recycling box (seed data):
	// ~200m apart along the longitude axis.
	d := DistanceMeters(35.6812, 139.7671, 35.6812, 139.7649)
	assert.InDelta(t, 199, d, 10)

	// Tokyo Station to Shibuya Station, roughly 6.4km.
	d = DistanceMeters(35.6812, 139.7671, 35.6598, 139.7023)
	assert.InDelta(t, 6350, d, 200)

	// Same point is zero.
	assert.Zero(t, DistanceMeters(35.0, 139.0, 35.0, 139.0))
}

func TestDistanceMetersSymmetric(t *testing.T) {
	a := DistanceMeters(35.6812, 139.7671, 35.6598, 139.7023)
	b := DistanceMeters(35.6598, 139.7023, 35.6812, 139.7671)
	assert.InDelta(t, a, b, 1e-9)
}

func TestBoundingBox(t *testing.T) {
	minLat, maxLat, minLng, maxLng := BoundingBox(35.6812, 139.7671, 500)

	assert.Less(t, minLat, 35.6812)
	assert.Greater(t, maxLat, 35.6812)
	assert.Less(t, minLng, 139.7671)
	assert.Greater(t, maxLng, 139.7671)

	// Every corner of the box must be at least the radius away or the box
	// would clip the circle.
	assert.GreaterOrEqual(t, DistanceMeters(35.6812, 139.7671, minLat, 139.7671), 499.0)
	assert.GreaterOrEqual(t, DistanceMeters(35.6812, 139.7671, 35.6812, minLng), 499.0)
}

func TestBoundingBoxClampsToWorld(t *testing.T) {
	minLat, maxLat, _, _ := BoundingBox(89.999, 0, 5000)
	assert.GreaterOrEqual(t, minLat, -90.0)
	assert.LessOrEqual(t, maxLat, 90.0)

	// A center next to the antimeridian clamps at +180 rather than wrapping
	// into negative longitudes.
	_, _, minLng, maxLng := BoundingBox(35.0, 179.99, 5000)
	assert.LessOrEqual(t, maxLng, 180.0)
	assert.Less(t, minLng, 179.99)
	assert.GreaterOrEqual(t, minLng, -180.0)
}

func TestPointInRing(t *testing.T) {
	// Rectangle around Tokyo Station, same shape as the seeded area
	// boundary. Positions are [lng, lat].
	ring := [][2]float64{
		{139.7500, 35.6700},
		{139.7800, 35.6700},
		{139.7800, 35.6900},
		{139.7500, 35.6900},
		{139.7500, 35.6700},
	}

	assert.True(t, PointInRing(35.6812, 139.7671, ring))
	assert.False(t, PointInRing(35.6598, 139.7023, ring)) // Shibuya, outside
	assert.False(t, PointInRing(35.6812, 139.7900, ring)) // east of the box
}

func TestPointInRingDegenerate(t *testing.T) {
	assert.False(t, PointInRing(35.0, 139.0, nil))
	assert.False(t, PointInRing(35.0, 139.0, [][2]float64{{139, 35}, {140, 36}}))
}

func TestValidLatLng(t *testing.T) {
	assert.True(t, ValidLatLng(35.6812, 139.7671))
	assert.True(t, ValidLatLng(-90, 180))
	assert.False(t, ValidLatLng(90.1, 0))
	assert.False(t, ValidLatLng(0, -180.5))
}
