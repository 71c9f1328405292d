package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"trashspot-backend/internal/cache"
	"trashspot-backend/internal/geo"
	"trashspot-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when an entity does not exist or is inactive.
var ErrNotFound = errors.New("not found")

const (
	searchCacheTTL = 5 * time.Minute
	detailCacheTTL = 10 * time.Minute
)

// SearchParams are the validated inputs of a nearby search.
type SearchParams struct {
	Lat             float64
	Lng             float64
	RadiusMeters    int
	TrashTypes      []string
	FacilityTypes   []string
	MinQualityScore *float64
	Limit           int
}

// TrashBinService wraps the store and cache for bin reads and feedback
// writes.
type TrashBinService struct {
	db    *sqlx.DB
	cache cache.Cache
}

// NewTrashBinService creates the service.
func NewTrashBinService(db *sqlx.DB, c cache.Cache) *TrashBinService {
	return &TrashBinService{db: db, cache: c}
}

func searchCacheKey(p SearchParams) string {
	minQ := ""
	if p.MinQualityScore != nil {
		minQ = fmt.Sprintf("%g", *p.MinQualityScore)
	}
	return fmt.Sprintf("search:%g:%g:%d:%s:%s:%s:%d",
		p.Lat, p.Lng, p.RadiusMeters,
		strings.Join(p.TrashTypes, ","),
		strings.Join(p.FacilityTypes, ","),
		minQ, p.Limit)
}

// SearchNearby returns active bins within the radius, ordered by ascending
// distance, each annotated with its distance in meters. Results are cached
// for five minutes; a cache hit returns the exact JSON the fresh query
// produced at cache-write time.
func (s *TrashBinService) SearchNearby(p SearchParams) ([]models.TrashBinResponse, error) {
	cacheKey := searchCacheKey(p)
	if cached, ok := s.cache.Get(cacheKey); ok {
		log.Println("📦 Returning cached search results")
		var results []models.TrashBinResponse
		if err := json.Unmarshal([]byte(cached), &results); err == nil {
			return results, nil
		}
		// Corrupt entry: fall through to a fresh query.
		s.cache.Delete(cacheKey)
	}

	// Bounding box prefilter in SQL, exact Haversine check in Go. The box
	// is a superset of the circle, never a subset.
	minLat, maxLat, minLng, maxLng := geo.BoundingBox(p.Lat, p.Lng, float64(p.RadiusMeters))

	var bins []models.TrashBin
	query := s.db.Rebind(`
		SELECT id, name, latitude, longitude, address, trash_types,
		       facility_type, access_conditions, operating_hours,
		       quality_score, trust_score, last_verified, ai_verified,
		       is_active, created_at, updated_at
		FROM trash_bins
		WHERE is_active = TRUE
		  AND latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?
		ORDER BY id ASC
	`)
	if err := s.db.Select(&bins, query, minLat, maxLat, minLng, maxLng); err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	type scored struct {
		bin      models.TrashBin
		distance float64
	}

	matches := make([]scored, 0, len(bins))
	for _, bin := range bins {
		d := geo.DistanceMeters(p.Lat, p.Lng, bin.Latitude, bin.Longitude)
		if d > float64(p.RadiusMeters) {
			continue
		}
		if len(p.TrashTypes) > 0 && !bin.TrashTypes.Intersects(p.TrashTypes) {
			continue
		}
		if len(p.FacilityTypes) > 0 && !containsString(p.FacilityTypes, bin.FacilityType) {
			continue
		}
		if p.MinQualityScore != nil && bin.QualityScore < *p.MinQualityScore {
			continue
		}
		matches = append(matches, scored{bin: bin, distance: d})
	}

	// Ascending distance; ties broken by id so results are deterministic
	// for a fixed dataset.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].bin.ID < matches[j].bin.ID
	})

	if len(matches) > p.Limit {
		matches = matches[:p.Limit]
	}

	results := make([]models.TrashBinResponse, len(matches))
	for i, m := range matches {
		resp := m.bin.ToResponse()
		meters := int(math.Round(m.distance))
		resp.DistanceMeters = &meters
		results[i] = resp
	}

	if encoded, err := json.Marshal(results); err == nil {
		s.cache.Set(cacheKey, string(encoded), searchCacheTTL)
	}

	return results, nil
}

// GetByID returns one active bin with its data sources and recent quality
// history. Cached for ten minutes.
func (s *TrashBinService) GetByID(id string) (*models.TrashBinDetail, error) {
	cacheKey := "trash_bin:" + id
	if cached, ok := s.cache.Get(cacheKey); ok {
		var detail models.TrashBinDetail
		if err := json.Unmarshal([]byte(cached), &detail); err == nil {
			return &detail, nil
		}
		s.cache.Delete(cacheKey)
	}

	var bin models.TrashBin
	query := s.db.Rebind(`SELECT * FROM trash_bins WHERE id = ? AND is_active = TRUE`)
	if err := s.db.Get(&bin, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("detail query failed: %w", err)
	}

	sources := []models.DataSource{}
	srcQuery := s.db.Rebind(`
		SELECT id, trash_bin_id, source_type, reliability_score, collected_at
		FROM data_sources WHERE trash_bin_id = ? ORDER BY collected_at DESC
	`)
	if err := s.db.Select(&sources, srcQuery, id); err != nil {
		return nil, fmt.Errorf("data sources query failed: %w", err)
	}

	history := []models.QualityMetric{}
	histQuery := s.db.Rebind(`
		SELECT id, trash_bin_id, accuracy_score, freshness_score,
		       reliability_score, source_count, verification_method, measured_at
		FROM quality_metrics WHERE trash_bin_id = ?
		ORDER BY measured_at DESC LIMIT 5
	`)
	if err := s.db.Select(&history, histQuery, id); err != nil {
		return nil, fmt.Errorf("quality history query failed: %w", err)
	}

	detail := models.TrashBinDetail{
		TrashBinResponse: bin.ToResponse(),
		DataSources:      sources,
		QualityHistory:   history,
		CreatedAtIso:     time.Unix(bin.CreatedAt, 0).UTC().Format(time.RFC3339),
		UpdatedAtIso:     time.Unix(bin.UpdatedAt, 0).UTC().Format(time.RFC3339),
	}

	if encoded, err := json.Marshal(detail); err == nil {
		s.cache.Set(cacheKey, string(encoded), detailCacheTTL)
	}

	return &detail, nil
}

// FeedbackInput is a validated feedback submission.
type FeedbackInput struct {
	TrashBinID   string
	FeedbackType string
	Content      *string
	UserLat      *float64
	UserLng      *float64
	ImageURL     *string
}

// SubmitFeedback stores a feedback row, applies the immediate coarse score
// nudge, and invalidates the bin's detail cache. Returns the feedback id.
func (s *TrashBinService) SubmitFeedback(in FeedbackInput) (string, error) {
	// The bin must exist and be active before anything is written.
	var exists bool
	existsQuery := s.db.Rebind(`SELECT EXISTS(SELECT 1 FROM trash_bins WHERE id = ? AND is_active = TRUE)`)
	if err := s.db.Get(&exists, existsQuery, in.TrashBinID); err != nil {
		return "", fmt.Errorf("feedback bin lookup failed: %w", err)
	}
	if !exists {
		return "", ErrNotFound
	}

	feedbackID := uuid.New().String()
	insert := s.db.Rebind(`
		INSERT INTO user_feedback (
			id, trash_bin_id, feedback_type, feedback_content,
			user_lat, user_lng, image_url, is_verified, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(insert,
		feedbackID, in.TrashBinID, in.FeedbackType, in.Content,
		in.UserLat, in.UserLng, in.ImageURL, false, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("feedback insert failed: %w", err)
	}

	// Fast coarse correction ahead of the daily recompute.
	if delta := feedbackNudge(in.FeedbackType); delta != 0 {
		if err := s.nudgeQualityScore(in.TrashBinID, delta); err != nil {
			log.Printf("⚠️  Failed to nudge quality score for %s: %v", in.TrashBinID, err)
		}
	}

	s.cache.Delete("trash_bin:" + in.TrashBinID)

	return feedbackID, nil
}

// feedbackNudge maps a feedback type to its immediate quality delta.
// Negative reports weigh double: a false "bin exists here" hurts trust
// more than a missed positive.
func feedbackNudge(feedbackType string) float64 {
	switch feedbackType {
	case models.FeedbackCorrect:
		return 0.05
	case models.FeedbackIncorrectLocation, models.FeedbackWrongInfo:
		return -0.10
	default:
		return 0
	}
}

func (s *TrashBinService) nudgeQualityScore(binID string, delta float64) error {
	var score float64
	get := s.db.Rebind(`SELECT quality_score FROM trash_bins WHERE id = ?`)
	if err := s.db.Get(&score, get, binID); err != nil {
		return err
	}

	score = clamp01(score + delta)

	update := s.db.Rebind(`UPDATE trash_bins SET quality_score = ?, updated_at = ? WHERE id = ?`)
	_, err := s.db.Exec(update, score, time.Now().Unix(), binID)
	return err
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
