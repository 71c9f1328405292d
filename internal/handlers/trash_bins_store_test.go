package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashspot-backend/internal/cache"
	"trashspot-backend/internal/database"
	"trashspot-backend/internal/services"
)

func newTestServices(t *testing.T) (*services.TrashBinService, *services.QualityService) {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedAreas(db))
	require.NoError(t, database.SeedTrashBins(db))

	return services.NewTrashBinService(db, cache.NewStore(100)), services.NewQualityService(db)
}

func TestSearchEnvelopeEchoesRadiusAndCenter(t *testing.T) {
	binSvc, _ := newTestServices(t)

	r := httptest.NewRequest("GET",
		"/api/v1/trash-bins/search?lat=35.6812&lng=139.7671&radius=300", nil)
	w := httptest.NewRecorder()
	SearchTrashBins(binSvc).ServeHTTP(w, r)
	require.Equal(t, 200, w.Code)

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			Count  int `json:"count"`
			Radius int `json:"radius"`
			Center struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"center"`
			TrashBins []json.RawMessage `json:"trash_bins"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, 2, envelope.Data.Count)
	assert.Len(t, envelope.Data.TrashBins, 2)
	assert.Equal(t, 300, envelope.Data.Radius)
	assert.Equal(t, 35.6812, envelope.Data.Center.Lat)
	assert.Equal(t, 139.7671, envelope.Data.Center.Lng)
}

func TestSubmitFeedbackWithBodyBinID(t *testing.T) {
	binSvc, qualitySvc := newTestServices(t)
	handler := SubmitFeedback(binSvc, qualitySvc, t.TempDir(), nil)

	// The flat route carries the bin id in the body.
	search := httptest.NewRequest("GET",
		"/api/v1/trash-bins/search?lat=35.6812&lng=139.7671&radius=300", nil)
	sw := httptest.NewRecorder()
	SearchTrashBins(binSvc).ServeHTTP(sw, search)
	require.Equal(t, 200, sw.Code)

	var searchBody struct {
		Data struct {
			TrashBins []struct {
				ID string `json:"id"`
			} `json:"trash_bins"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sw.Body.Bytes(), &searchBody))
	require.NotEmpty(t, searchBody.Data.TrashBins)
	binID := searchBody.Data.TrashBins[0].ID

	body := `{"trash_bin_id":"` + binID + `","feedback_type":"correct"}`
	r := httptest.NewRequest("POST", "/api/v1/trash-bins/feedback", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, 201, w.Code)
	assert.Contains(t, w.Body.String(), "feedback_id")
}

func TestSubmitFeedbackMissingBinID(t *testing.T) {
	binSvc, qualitySvc := newTestServices(t)
	handler := SubmitFeedback(binSvc, qualitySvc, t.TempDir(), nil)

	r := httptest.NewRequest("POST", "/api/v1/trash-bins/feedback",
		strings.NewReader(`{"feedback_type":"correct"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
}
