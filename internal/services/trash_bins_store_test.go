package services

import (
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashspot-backend/internal/cache"
	"trashspot-backend/internal/database"
)

// newTestDB opens an in-memory SQLite store with the full schema and the
// seed dataset, mirroring the zero-config startup path.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedAreas(db))
	require.NoError(t, database.SeedTrashBins(db))
	return db
}

func newTestBinService(t *testing.T) *TrashBinService {
	t.Helper()
	return NewTrashBinService(newTestDB(t), cache.NewStore(100))
}

func TestSearchNearbySortedWithinRadius(t *testing.T) {
	svc := newTestBinService(t)

	results, err := svc.SearchNearby(SearchParams{
		Lat: 35.6812, Lng: 139.7671, RadiusMeters: 5000, Limit: 100,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for i, r := range results {
		require.NotNil(t, r.DistanceMeters)
		assert.LessOrEqual(t, *r.DistanceMeters, 5000)
		if i > 0 {
			assert.GreaterOrEqual(t, *r.DistanceMeters, *results[i-1].DistanceMeters)
		}
	}
}

func TestSearchNearbyTokyoStationScenario(t *testing.T) {
	svc := newTestBinService(t)

	// 300m around the Yaesu exit reaches exactly two seeded bins: the
	// convenience store at the center and the in-station recycling box
	// about 200m west. Ginza, 550m south, stays out.
	results, err := svc.SearchNearby(SearchParams{
		Lat: 35.6812, Lng: 139.7671, RadiusMeters: 300, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Tokyo Station Yaesu Convenience Store", results[0].Name.Resolve("en"))
	assert.Equal(t, 0, *results[0].DistanceMeters)
	assert.Equal(t, "Tokyo Station Recycling Box", results[1].Name.Resolve("en"))
	assert.InDelta(t, 199, *results[1].DistanceMeters, 10)
}

func TestSearchNearbyRespectsLimitAndFilters(t *testing.T) {
	svc := newTestBinService(t)

	params := SearchParams{Lat: 35.6812, Lng: 139.7671, RadiusMeters: 5000, Limit: 1}
	results, err := svc.SearchNearby(params)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	minQ := 0.9 // seed bins all carry 0.8
	results, err = svc.SearchNearby(SearchParams{
		Lat: 35.6812, Lng: 139.7671, RadiusMeters: 5000, Limit: 50,
		MinQualityScore: &minQ,
	})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.SearchNearby(SearchParams{
		Lat: 35.6812, Lng: 139.7671, RadiusMeters: 600, Limit: 50,
		TrashTypes: []string{"glass"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ginza Chuo-dori Recycling", results[0].Name.Resolve("en"))
}

func TestSearchNearbyCacheHitIsByteIdentical(t *testing.T) {
	svc := newTestBinService(t)
	params := SearchParams{Lat: 35.6812, Lng: 139.7671, RadiusMeters: 300, Limit: 50}

	fresh, err := svc.SearchNearby(params)
	require.NoError(t, err)

	// Mutate the table behind the cache's back. The cached answer must
	// still come back unchanged until the TTL or an invalidation.
	_, err = svc.db.Exec(`UPDATE trash_bins SET is_active = FALSE`)
	require.NoError(t, err)

	cached, err := svc.SearchNearby(params)
	require.NoError(t, err)

	freshJSON, err := json.Marshal(fresh)
	require.NoError(t, err)
	cachedJSON, err := json.Marshal(cached)
	require.NoError(t, err)
	assert.Equal(t, string(freshJSON), string(cachedJSON))
}

func TestSubmitFeedbackNudgesScoreAndInvalidatesCache(t *testing.T) {
	svc := newTestBinService(t)

	var binID string
	require.NoError(t, svc.db.Get(&binID, `SELECT id FROM trash_bins LIMIT 1`))

	// Warm the detail cache, then submit negative feedback.
	_, err := svc.GetByID(binID)
	require.NoError(t, err)

	content := "The bin is gone"
	_, err = svc.SubmitFeedback(FeedbackInput{
		TrashBinID:   binID,
		FeedbackType: "incorrect_location",
		Content:      &content,
	})
	require.NoError(t, err)

	var score float64
	require.NoError(t, svc.db.Get(&score, svc.db.Rebind(`SELECT quality_score FROM trash_bins WHERE id = ?`), binID))
	assert.InDelta(t, 0.7, score, 1e-9) // seeded 0.8 minus the 0.10 nudge

	// The invalidated cache means the detail now reflects the new score.
	detail, err := svc.GetByID(binID)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, detail.QualityScore, 1e-9)
}

func TestSubmitFeedbackUnknownBin(t *testing.T) {
	svc := newTestBinService(t)

	_, err := svc.SubmitFeedback(FeedbackInput{
		TrashBinID:   "no-such-bin",
		FeedbackType: "correct",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
