package models

// Feedback type enum.
const (
	FeedbackCorrect           = "correct"
	FeedbackIncorrectLocation = "incorrect_location"
	FeedbackWrongInfo         = "wrong_info"
	FeedbackRemoved           = "removed"
	FeedbackClosed            = "closed"
	FeedbackDamaged           = "damaged"
	FeedbackFull              = "full"
	FeedbackOther             = "other"
)

// FeedbackTypes lists every valid feedback type.
var FeedbackTypes = []string{
	FeedbackCorrect, FeedbackIncorrectLocation, FeedbackWrongInfo,
	FeedbackRemoved, FeedbackClosed, FeedbackDamaged, FeedbackFull,
	FeedbackOther,
}

// IsValidFeedbackType reports whether t is a known feedback type.
func IsValidFeedbackType(t string) bool {
	for _, f := range FeedbackTypes {
		if f == t {
			return true
		}
	}
	return false
}

// UserFeedback is one user report about a specific bin.
type UserFeedback struct {
	ID           string   `json:"id" db:"id"`
	TrashBinID   string   `json:"trash_bin_id" db:"trash_bin_id"`
	FeedbackType string   `json:"feedback_type" db:"feedback_type"`
	Content      *string  `json:"feedback_content,omitempty" db:"feedback_content"`
	UserLat      *float64 `json:"user_lat,omitempty" db:"user_lat"`
	UserLng      *float64 `json:"user_lng,omitempty" db:"user_lng"`
	ImageURL     *string  `json:"image_url,omitempty" db:"image_url"`
	IsVerified   bool     `json:"is_verified" db:"is_verified"`
	CreatedAt    int64    `json:"created_at" db:"created_at"` // Unix timestamp
}

// QualityMetric is an append-only snapshot of a bin's computed sub-scores.
type QualityMetric struct {
	ID                 string  `json:"-" db:"id"`
	TrashBinID         string  `json:"-" db:"trash_bin_id"`
	AccuracyScore      float64 `json:"accuracy_score" db:"accuracy_score"`
	FreshnessScore     float64 `json:"freshness_score" db:"freshness_score"`
	ReliabilityScore   float64 `json:"reliability_score" db:"reliability_score"`
	SourceCount        int     `json:"source_count" db:"source_count"`
	VerificationMethod string  `json:"verification_method" db:"verification_method"`
	MeasuredAt         int64   `json:"measured_at" db:"measured_at"` // Unix timestamp
}
