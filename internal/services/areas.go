package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"trashspot-backend/internal/geo"
	"trashspot-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// AreaService serves area reads and area-scoped bin listings.
type AreaService struct {
	db *sqlx.DB
}

// NewAreaService creates the service.
func NewAreaService(db *sqlx.DB) *AreaService {
	return &AreaService{db: db}
}

// GetAll returns every area.
func (s *AreaService) GetAll() ([]models.AreaResponse, error) {
	var areas []models.Area
	err := s.db.Select(&areas, `
		SELECT id, name, center_lat, center_lng, zoom_level, boundary, created_at
		FROM areas ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("areas query failed: %w", err)
	}

	out := make([]models.AreaResponse, len(areas))
	for i, a := range areas {
		out[i] = a.ToResponse()
	}
	return out, nil
}

// GetByID returns one area.
func (s *AreaService) GetByID(id string) (*models.Area, error) {
	var area models.Area
	query := s.db.Rebind(`
		SELECT id, name, center_lat, center_lng, zoom_level, boundary, created_at
		FROM areas WHERE id = ?
	`)
	if err := s.db.Get(&area, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("area query failed: %w", err)
	}
	return &area, nil
}

// BinsInArea returns active bins inside the area's boundary polygon,
// optionally filtered by trash types and facility types (OR semantics
// within each filter), ordered by descending quality score.
func (s *AreaService) BinsInArea(areaID string, trashTypes, facilityTypes []string) ([]models.TrashBinResponse, error) {
	area, err := s.GetByID(areaID)
	if err != nil {
		return nil, err
	}

	ring := area.Boundary.OuterRing()
	if ring == nil {
		// No polygon on record: nothing can match.
		return []models.TrashBinResponse{}, nil
	}

	// Prefilter with the polygon's bounding box, then the exact
	// point-in-polygon test.
	minLng, minLat := ring[0][0], ring[0][1]
	maxLng, maxLat := minLng, minLat
	for _, pos := range ring {
		if pos[0] < minLng {
			minLng = pos[0]
		}
		if pos[0] > maxLng {
			maxLng = pos[0]
		}
		if pos[1] < minLat {
			minLat = pos[1]
		}
		if pos[1] > maxLat {
			maxLat = pos[1]
		}
	}

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
	`)
	if err := s.db.Select(&bins, query, minLat, maxLat, minLng, maxLng); err != nil {
		return nil, fmt.Errorf("area bins query failed: %w", err)
	}

	matched := make([]models.TrashBin, 0, len(bins))
	for _, bin := range bins {
		if !geo.PointInRing(bin.Latitude, bin.Longitude, ring) {
			continue
		}
		if len(trashTypes) > 0 && !bin.TrashTypes.Intersects(trashTypes) {
			continue
		}
		if len(facilityTypes) > 0 && !containsString(facilityTypes, bin.FacilityType) {
			continue
		}
		matched = append(matched, bin)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].QualityScore != matched[j].QualityScore {
			return matched[i].QualityScore > matched[j].QualityScore
		}
		return matched[i].ID < matched[j].ID
	})

	out := make([]models.TrashBinResponse, len(matched))
	for i := range matched {
		out[i] = matched[i].ToResponse()
	}
	return out, nil
}
