package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Scoring windows and factors.
const (
	feedbackWindowDays  = 30
	freshnessWindowDays = 90
	decayAfterDays      = 90
	decayFactor         = 0.9
	decayFloor          = 0.1

	feedbackRetentionDays = 180
	metricRetentionDays   = 90
	historyRetentionDays  = 30
)

// QualityService recomputes bin scores and runs retention cleanup.
type QualityService struct {
	db *sqlx.DB
}

// NewQualityService creates the service.
func NewQualityService(db *sqlx.DB) *QualityService {
	return &QualityService{db: db}
}

// AccuracyScore derives the feedback-driven accuracy component. Negative
// reports are weighted double. Defaults to 0.5 with no feedback.
func AccuracyScore(total, positive, negative int) float64 {
	if total == 0 {
		return 0.5
	}
	return clamp01(float64(positive-negative*2)/float64(total) + 0.5)
}

// FreshnessScore decays linearly from 1 to 0 over the 90-day verification
// window.
func FreshnessScore(daysSinceVerified float64) float64 {
	return clamp01(1 - daysSinceVerified/freshnessWindowDays)
}

// ReliabilityScore applies logarithmic diminishing returns for additional
// corroborating sources.
func ReliabilityScore(avgSourceReliability float64, sourceCount int) float64 {
	return clamp01(avgSourceReliability * (1 + math.Log(float64(sourceCount)+1)/5))
}

// RecomputeAll recalculates quality metrics for every active bin,
// persisting a QualityMetric snapshot and the new aggregate score. A
// failure on one bin is logged and does not stop the pass.
func (s *QualityService) RecomputeAll() error {
	var binIDs []string
	if err := s.db.Select(&binIDs, `SELECT id FROM trash_bins WHERE is_active = TRUE`); err != nil {
		return fmt.Errorf("active bins query failed: %w", err)
	}

	for _, id := range binIDs {
		if err := s.RecomputeBin(id, "automated"); err != nil {
			log.Printf("⚠️  Quality recompute failed for bin %s: %v", id, err)
		}
	}

	log.Printf("✅ Quality metrics calculated for %d trash bins", len(binIDs))
	return nil
}

// RecomputeBin recalculates one bin's sub-scores, appends a QualityMetric
// row, and stores the aggregate as the bin's quality_score.
func (s *QualityService) RecomputeBin(binID, method string) error {
	now := time.Now()
	windowStart := now.Add(-feedbackWindowDays * 24 * time.Hour).Unix()

	var fb struct {
		Total    int `db:"total_feedback"`
		Positive int `db:"positive_feedback"`
		Negative int `db:"negative_feedback"`
	}
	fbQuery := s.db.Rebind(`
		SELECT
			COUNT(*) AS total_feedback,
			COALESCE(SUM(CASE WHEN feedback_type = 'correct' THEN 1 ELSE 0 END), 0) AS positive_feedback,
			COALESCE(SUM(CASE WHEN feedback_type IN ('incorrect_location', 'wrong_info') THEN 1 ELSE 0 END), 0) AS negative_feedback
		FROM user_feedback
		WHERE trash_bin_id = ? AND created_at > ?
	`)
	if err := s.db.Get(&fb, fbQuery, binID, windowStart); err != nil {
		return fmt.Errorf("feedback aggregation failed: %w", err)
	}
	accuracy := AccuracyScore(fb.Total, fb.Positive, fb.Negative)

	var lastVerified *int64
	lvQuery := s.db.Rebind(`SELECT last_verified FROM trash_bins WHERE id = ?`)
	if err := s.db.Get(&lastVerified, lvQuery, binID); err != nil {
		return fmt.Errorf("last_verified query failed: %w", err)
	}
	daysSince := float64(freshnessWindowDays)
	if lastVerified != nil {
		daysSince = now.Sub(time.Unix(*lastVerified, 0)).Hours() / 24
	}
	freshness := FreshnessScore(daysSince)

	var src struct {
		Count          int      `db:"source_count"`
		AvgReliability *float64 `db:"avg_reliability"`
	}
	srcQuery := s.db.Rebind(`
		SELECT COUNT(*) AS source_count, AVG(reliability_score) AS avg_reliability
		FROM data_sources WHERE trash_bin_id = ?
	`)
	if err := s.db.Get(&src, srcQuery, binID); err != nil {
		return fmt.Errorf("source aggregation failed: %w", err)
	}
	avgReliability := 0.5
	if src.AvgReliability != nil {
		avgReliability = *src.AvgReliability
	}
	reliability := ReliabilityScore(avgReliability, src.Count)

	insert := s.db.Rebind(`
		INSERT INTO quality_metrics (
			id, trash_bin_id, accuracy_score, freshness_score,
			reliability_score, source_count, verification_method, measured_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(insert,
		uuid.New().String(), binID, accuracy, freshness,
		reliability, src.Count, method, now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("quality metric insert failed: %w", err)
	}

	overall := (accuracy + freshness + reliability) / 3
	update := s.db.Rebind(`UPDATE trash_bins SET quality_score = ?, updated_at = ? WHERE id = ?`)
	if _, err := s.db.Exec(update, overall, now.Unix(), binID); err != nil {
		return fmt.Errorf("quality score update failed: %w", err)
	}

	return nil
}

// RunCleanup applies the retention policy and the staleness decay pass.
func (s *QualityService) RunCleanup() error {
	now := time.Now()

	cutHistory := now.Add(-historyRetentionDays * 24 * time.Hour).Unix()
	q := s.db.Rebind(`DELETE FROM ai_research_history WHERE created_at < ?`)
	if _, err := s.db.Exec(q, cutHistory); err != nil {
		return fmt.Errorf("research history cleanup failed: %w", err)
	}

	cutMetrics := now.Add(-metricRetentionDays * 24 * time.Hour).Unix()
	q = s.db.Rebind(`DELETE FROM quality_metrics WHERE measured_at < ?`)
	if _, err := s.db.Exec(q, cutMetrics); err != nil {
		return fmt.Errorf("quality metrics cleanup failed: %w", err)
	}

	cutFeedback := now.Add(-feedbackRetentionDays * 24 * time.Hour).Unix()
	q = s.db.Rebind(`DELETE FROM user_feedback WHERE created_at < ? AND is_verified = FALSE`)
	if _, err := s.db.Exec(q, cutFeedback); err != nil {
		return fmt.Errorf("feedback cleanup failed: %w", err)
	}

	// Decay scores for bins unverified beyond the window. Bins already at
	// or below the floor are left alone; they are effectively flagged.
	cutVerified := now.Add(-decayAfterDays * 24 * time.Hour).Unix()
	q = s.db.Rebind(`
		UPDATE trash_bins
		SET quality_score = quality_score * ?,
		    trust_score = trust_score * ?,
		    updated_at = ?
		WHERE last_verified IS NOT NULL
		  AND last_verified < ?
		  AND quality_score > ?
	`)
	if _, err := s.db.Exec(q, decayFactor, decayFactor, now.Unix(), cutVerified, decayFloor); err != nil {
		return fmt.Errorf("decay pass failed: %w", err)
	}

	log.Println("✅ Data cleanup completed")
	return nil
}
