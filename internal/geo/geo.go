// Package geo provides great-circle distance and containment helpers used
// by the search service and the AI merge pipeline.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

// DistanceMeters calculates the Haversine distance between two GPS
// coordinates in meters.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// BoundingBox returns a lat/lng box that encloses the circle of the given
// radius around the center. Used to prefilter candidates in SQL before the
// exact Haversine check.
//
// Longitude is clamped at the ±180 antimeridian rather than wrapped. A box
// crossing the date line would need two SQL range predicates, and searchable
// coverage is Japan, so clamping is a deliberate simplification. Points on
// the far side of the antimeridian are excluded by the prefilter.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, maxLat, minLng, maxLng float64) {
	latDelta := radiusMeters / 111320.0 // meters per degree latitude

	// Longitude degrees shrink with latitude; guard the poles.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lngDelta := radiusMeters / (111320.0 * cosLat)

	minLat = math.Max(lat-latDelta, -90)
	maxLat = math.Min(lat+latDelta, 90)
	minLng = math.Max(lng-lngDelta, -180)
	maxLng = math.Min(lng+lngDelta, 180)
	return
}

// PointInRing reports whether the point lies inside the polygon ring using
// the ray casting algorithm. Ring positions are [lng, lat] pairs, GeoJSON
// order.
func PointInRing(lat, lng float64, ring [][2]float64) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > lat) != (yj > lat) &&
			lng < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ValidLatLng reports whether the coordinates are within WGS84 bounds.
func ValidLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
