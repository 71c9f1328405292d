package models

// Research cycle status values.
const (
	ResearchInProgress = "in_progress"
	ResearchCompleted  = "completed"
	ResearchFailed     = "failed"
)

// ResearchRecord is an audit row for one AI research invocation on one area.
type ResearchRecord struct {
	ID           string  `json:"id" db:"id"`
	CycleID      string  `json:"cycle_id" db:"cycle_id"`
	ResearchType string  `json:"research_type" db:"research_type"`
	TargetAreaID string  `json:"target_area_id" db:"target_area_id"`
	AIService    string  `json:"ai_service" db:"ai_service"`
	ResultsCount int     `json:"results_count" db:"results_count"`
	QualityScore float64 `json:"quality_score" db:"quality_score"`
	ExecutionMs  int64   `json:"execution_time_ms" db:"execution_time_ms"`
	Status       string  `json:"status" db:"status"`
	ErrorMessage *string `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    int64   `json:"created_at" db:"created_at"` // Unix timestamp
}
