package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchCacheKeyDistinguishesParams(t *testing.T) {
	base := SearchParams{Lat: 35.68, Lng: 139.76, RadiusMeters: 500, Limit: 50}

	same := searchCacheKey(base)
	assert.Equal(t, same, searchCacheKey(base))

	widened := base
	widened.RadiusMeters = 1000
	assert.NotEqual(t, same, searchCacheKey(widened))

	filtered := base
	filtered.TrashTypes = []string{"can"}
	assert.NotEqual(t, same, searchCacheKey(filtered))

	minQ := 0.5
	qualified := base
	qualified.MinQualityScore = &minQ
	assert.NotEqual(t, same, searchCacheKey(qualified))
}

func TestContainsString(t *testing.T) {
	assert.True(t, containsString([]string{"station", "park"}, "park"))
	assert.False(t, containsString([]string{"station"}, "park"))
	assert.False(t, containsString(nil, "park"))
}
