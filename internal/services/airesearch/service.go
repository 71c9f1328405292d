package airesearch

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"trashspot-backend/internal/geo"
	"trashspot-backend/internal/models"
)

// duplicateRadiusMeters is the distance under which a candidate is treated
// as an update to an existing bin rather than a new one.
const duplicateRadiusMeters = 50.0

// Broadcaster pushes change events to connected websocket clients.
type Broadcaster interface {
	Broadcast(msgType string, data interface{}, areaID string)
}

// Service runs research cycles: query providers per area, merge, upsert.
type Service struct {
	db        *sqlx.DB
	providers []Provider
	notifier  Broadcaster
	timeout   time.Duration
}

// NewService creates the research service. notifier may be nil.
func NewService(db *sqlx.DB, providers []Provider, notifier Broadcaster, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{db: db, providers: providers, notifier: notifier, timeout: timeout}
}

// CycleResult summarizes one research cycle for the admin API.
type CycleResult struct {
	CycleID      string  `json:"cycle_id"`
	AreasDone    int     `json:"areas_processed"`
	AreasFailed  int     `json:"areas_failed"`
	BinsUpserted int     `json:"bins_upserted"`
	BinsDropped  int     `json:"bins_dropped"`
	QualityScore float64 `json:"quality_score"`
	DurationMs   int64   `json:"duration_ms"`
}

// RunCycle researches every area in turn. A failing area is recorded and
// skipped; it never aborts the cycle.
func (s *Service) RunCycle(ctx context.Context) (*CycleResult, error) {
	if len(s.providers) == 0 {
		return nil, fmt.Errorf("no AI providers configured")
	}

	cycleID := fmt.Sprintf("cycle_%d_%06x", time.Now().UnixMilli(), rand.Intn(1<<24))
	start := time.Now()
	log.Printf("🤖 Starting AI research cycle %s (%d providers)", cycleID, len(s.providers))

	var areas []models.Area
	if err := s.db.Select(&areas, `SELECT * FROM areas ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("areas query failed: %w", err)
	}

	result := &CycleResult{CycleID: cycleID}
	var qualitySum float64

	for i := range areas {
		area := &areas[i]
		upserted, dropped, quality, err := s.researchArea(ctx, cycleID, area)
		if err != nil {
			log.Printf("❌ Research failed for area %s: %v", area.Name.Resolve("en"), err)
			result.AreasFailed++
			continue
		}
		result.AreasDone++
		result.BinsUpserted += upserted
		result.BinsDropped += dropped
		qualitySum += quality
	}

	if result.AreasDone > 0 {
		result.QualityScore = qualitySum / float64(result.AreasDone)
	}
	result.DurationMs = time.Since(start).Milliseconds()

	log.Printf("✅ AI research cycle %s done: %d areas, %d bins upserted, quality %.2f (%dms)",
		cycleID, result.AreasDone, result.BinsUpserted, result.QualityScore, result.DurationMs)
	return result, nil
}

// researchArea queries every provider concurrently, merges the answers,
// and upserts the merged candidates. One audit row covers the whole
// (cycle, area) attempt: it is written as in_progress before the provider
// calls and finalized to completed or failed afterwards.
func (s *Service) researchArea(ctx context.Context, cycleID string, area *models.Area) (upserted, dropped int, quality float64, err error) {
	runID := s.beginRun(cycleID, area.ID)
	start := time.Now()
	defer func() {
		s.finishRun(runID, upserted, quality, time.Since(start), err)
	}()

	type providerOutcome struct {
		name       string
		candidates []Candidate
		elapsed    time.Duration
		err        error
	}

	outcomes := make([]providerOutcome, len(s.providers))
	var wg sync.WaitGroup

	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			start := time.Now()
			candidates, callErr := p.Research(callCtx, area)
			outcomes[i] = providerOutcome{
				name:       p.Name(),
				candidates: candidates,
				elapsed:    time.Since(start),
				err:        callErr,
			}
		}(i, p)
	}
	wg.Wait()

	batches := make([][]Candidate, 0, len(outcomes))
	failures := 0
	for _, o := range outcomes {
		if o.err != nil {
			failures++
			log.Printf("⚠️  Provider %s failed for area %s after %dms: %v",
				o.name, area.ID, o.elapsed.Milliseconds(), o.err)
			continue
		}
		for j := range o.candidates {
			o.candidates[j].Source = o.name
		}
		batches = append(batches, o.candidates)
	}
	if failures == len(outcomes) {
		return 0, 0, 0, fmt.Errorf("all providers failed")
	}

	merged, dropped := MergeCandidates(batches...)
	quality = BatchQualityScore(merged)

	for i := range merged {
		if upErr := s.upsertCandidate(&merged[i], area.ID); upErr != nil {
			log.Printf("⚠️  Upsert failed for candidate at %.6f,%.6f: %v",
				merged[i].Latitude, merged[i].Longitude, upErr)
			dropped++
			continue
		}
		upserted++
	}

	return upserted, dropped, quality, nil
}

// upsertCandidate inserts a new bin or refreshes an existing one within
// 50 meters. Scores are only ever raised by AI corroboration, never
// lowered.
func (s *Service) upsertCandidate(c *Candidate, areaID string) error {
	now := time.Now().Unix()

	minLat, maxLat, minLng, maxLng := geo.BoundingBox(c.Latitude, c.Longitude, duplicateRadiusMeters)
	var nearby []models.TrashBin
	query := s.db.Rebind(`
		SELECT * FROM trash_bins
		WHERE is_active = TRUE
		  AND latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?
	`)
	if err := s.db.Select(&nearby, query, minLat, maxLat, minLng, maxLng); err != nil {
		return fmt.Errorf("neighbor query failed: %w", err)
	}

	var existing *models.TrashBin
	for i := range nearby {
		d := geo.DistanceMeters(c.Latitude, c.Longitude, nearby[i].Latitude, nearby[i].Longitude)
		if d <= duplicateRadiusMeters {
			existing = &nearby[i]
			break
		}
	}

	if existing != nil {
		quality := existing.QualityScore
		if c.Confidence > quality {
			quality = c.Confidence
		}
		trust := existing.TrustScore
		if c.SourceCount >= 2 && trust < 0.9 {
			trust = 0.9
		}

		types := existing.TrashTypes.Union(c.TrashTypes)
		update := s.db.Rebind(`
			UPDATE trash_bins
			SET trash_types = ?, quality_score = ?, trust_score = ?,
			    last_verified = ?, ai_verified = TRUE, updated_at = ?
			WHERE id = ?
		`)
		if _, err := s.db.Exec(update, types, quality, trust, now, now, existing.ID); err != nil {
			return fmt.Errorf("bin update failed: %w", err)
		}

		if err := s.addDataSource(existing.ID, c, now); err != nil {
			return err
		}
		if s.notifier != nil {
			s.notifier.Broadcast("bin_updated", map[string]interface{}{
				"id": existing.ID, "area": areaID,
			}, areaID)
		}
		return nil
	}

	trust := 0.7
	if c.SourceCount >= 2 {
		trust = 0.9
	}

	bin := models.TrashBin{
		ID:               uuid.New().String(),
		Name:             c.Name,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Address:          c.Address,
		TrashTypes:       c.TrashTypes,
		FacilityType:     c.FacilityType,
		AccessConditions: c.AccessCond,
		OperatingHours:   c.Hours,
		QualityScore:     c.Confidence,
		TrustScore:       trust,
		AIVerified:       true,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	bin.LastVerified = &now

	insert := s.db.Rebind(`
		INSERT INTO trash_bins (
			id, name, latitude, longitude, address, trash_types,
			facility_type, access_conditions, operating_hours,
			quality_score, trust_score, last_verified, ai_verified,
			is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(insert,
		bin.ID, bin.Name, bin.Latitude, bin.Longitude, bin.Address,
		bin.TrashTypes, bin.FacilityType, bin.AccessConditions,
		bin.OperatingHours, bin.QualityScore, bin.TrustScore,
		bin.LastVerified, bin.AIVerified, bin.IsActive,
		bin.CreatedAt, bin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("bin insert failed: %w", err)
	}

	if err := s.addDataSource(bin.ID, c, now); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Broadcast("bin_added", bin.ToResponse(), areaID)
	}
	return nil
}

func (s *Service) addDataSource(binID string, c *Candidate, now int64) error {
	sourceType := "ai_research"
	if c.Source != "" {
		sourceType = "ai_" + c.Source
	}
	insert := s.db.Rebind(`
		INSERT INTO data_sources (id, trash_bin_id, source_type, reliability_score, collected_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := s.db.Exec(insert, uuid.New().String(), binID, sourceType, c.Confidence, now); err != nil {
		return fmt.Errorf("data source insert failed: %w", err)
	}
	return nil
}

// beginRun opens the audit row for one (cycle, area) attempt in the
// in_progress state and returns its id.
func (s *Service) beginRun(cycleID, areaID string) string {
	id := uuid.New().String()
	insert := s.db.Rebind(`
		INSERT INTO ai_research_history (
			id, cycle_id, research_type, target_area_id, ai_service,
			results_count, quality_score, execution_time_ms, status,
			error_message, created_at
		) VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, NULL, ?)
	`)
	_, err := s.db.Exec(insert,
		id, cycleID, "area_research", areaID, "combined",
		models.ResearchInProgress, time.Now().Unix(),
	)
	if err != nil {
		log.Printf("⚠️  Failed to open research history row: %v", err)
	}
	return id
}

// finishRun transitions the audit row to its terminal state.
func (s *Service) finishRun(id string, results int, quality float64, elapsed time.Duration, runErr error) {
	status := models.ResearchCompleted
	var errMsg *string
	if runErr != nil {
		status = models.ResearchFailed
		msg := runErr.Error()
		errMsg = &msg
	}

	update := s.db.Rebind(`
		UPDATE ai_research_history
		SET results_count = ?, quality_score = ?, execution_time_ms = ?,
		    status = ?, error_message = ?
		WHERE id = ?
	`)
	_, err := s.db.Exec(update,
		results, quality, elapsed.Milliseconds(), status, errMsg, id,
	)
	if err != nil {
		log.Printf("⚠️  Failed to finalize research history row: %v", err)
	}
}

// History returns recent audit rows, most recent first.
func (s *Service) History(limit int) ([]models.ResearchRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var records []models.ResearchRecord
	query := s.db.Rebind(`
		SELECT * FROM ai_research_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	if err := s.db.Select(&records, query, limit); err != nil {
		return nil, fmt.Errorf("research history query failed: %w", err)
	}
	return records, nil
}
