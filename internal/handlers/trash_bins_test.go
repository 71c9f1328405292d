package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchRequest(query string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("GET", "/api/v1/trash-bins/search?"+query, nil)
	w := httptest.NewRecorder()
	// Validation rejects the request before the service is touched.
	SearchTrashBins(nil).ServeHTTP(w, r)
	return w
}

func TestSearchValidationRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"missing lat", "lng=139.76"},
		{"missing lng", "lat=35.68"},
		{"lat not a number", "lat=abc&lng=139.76"},
		{"lat out of range", "lat=91&lng=139.76"},
		{"lng out of range", "lat=35.68&lng=181"},
		{"radius too small", "lat=35.68&lng=139.76&radius=50"},
		{"radius too large", "lat=35.68&lng=139.76&radius=6000"},
		{"radius not a number", "lat=35.68&lng=139.76&radius=far"},
		{"limit zero", "lat=35.68&lng=139.76&limit=0"},
		{"limit too large", "lat=35.68&lng=139.76&limit=101"},
		{"unknown trash type", "lat=35.68&lng=139.76&trash_types=nuclear"},
		{"unknown facility type", "lat=35.68&lng=139.76&facility_types=spaceport"},
		{"min_quality_score too large", "lat=35.68&lng=139.76&min_quality_score=1.5"},
		{"min_quality_score negative", "lat=35.68&lng=139.76&min_quality_score=-0.1"},
		{"min_quality alias too large", "lat=35.68&lng=139.76&min_quality=1.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := searchRequest(tc.query)
			assert.Equal(t, 400, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"error"`)
		})
	}
}

func TestParseSearchParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/trash-bins/search?lat=35.68&lng=139.76", nil)
	p, err := parseSearchParams(r)
	require.NoError(t, err)

	assert.Equal(t, 35.68, p.Lat)
	assert.Equal(t, 139.76, p.Lng)
	assert.Equal(t, defaultRadiusMeters, p.RadiusMeters)
	assert.Equal(t, defaultSearchLimit, p.Limit)
	assert.Nil(t, p.TrashTypes)
	assert.Nil(t, p.MinQualityScore)
}

func TestParseSearchParamsFullQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/trash-bins/search?lat=35.68&lng=139.76&radius=1000&limit=10"+
			"&trash_types=can,glass&facility_types=station&min_quality_score=0.6", nil)
	p, err := parseSearchParams(r)
	require.NoError(t, err)

	assert.Equal(t, 1000, p.RadiusMeters)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, []string{"can", "glass"}, p.TrashTypes)
	assert.Equal(t, []string{"station"}, p.FacilityTypes)
	require.NotNil(t, p.MinQualityScore)
	assert.Equal(t, 0.6, *p.MinQualityScore)
}

func TestParseSearchParamsMinQualityAlias(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/trash-bins/search?lat=35.68&lng=139.76&min_quality=0.4", nil)
	p, err := parseSearchParams(r)
	require.NoError(t, err)
	require.NotNil(t, p.MinQualityScore)
	assert.Equal(t, 0.4, *p.MinQualityScore)

	// The full name wins when both are given.
	r = httptest.NewRequest("GET",
		"/api/v1/trash-bins/search?lat=35.68&lng=139.76&min_quality_score=0.8&min_quality=0.4", nil)
	p, err = parseSearchParams(r)
	require.NoError(t, err)
	require.NotNil(t, p.MinQualityScore)
	assert.Equal(t, 0.8, *p.MinQualityScore)
}

func TestSplitCSVTrimsAndDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"can", "glass"}, splitCSV(" can , glass ,"))
	assert.Empty(t, splitCSV(","))
}
