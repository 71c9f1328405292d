// Package airesearch discovers trash bin candidates by querying LLM
// services about a geographic area, merging corroborating answers, and
// upserting the results into the store.
package airesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trashspot-backend/internal/models"
)

// Candidate is one trash bin location proposed by an AI service.
type Candidate struct {
	Name         models.LocalizedText  `json:"name"`
	Latitude     float64               `json:"latitude"`
	Longitude    float64               `json:"longitude"`
	Address      models.LocalizedText  `json:"address"`
	TrashTypes   []string              `json:"trash_types"`
	FacilityType string                `json:"facility_type"`
	AccessCond   *models.LocalizedText `json:"access_conditions,omitempty"`
	Hours        *models.LocalizedText `json:"operating_hours,omitempty"`
	Confidence   float64               `json:"confidence"`

	// Filled during the merge pass, not by providers.
	Source      string `json:"-"`
	SourceCount int    `json:"-"`
}

// Provider queries one AI service for bin candidates in an area.
type Provider interface {
	Name() string
	Research(ctx context.Context, area *models.Area) ([]Candidate, error)
}

// researchPrompt builds the instruction sent to every provider.
func researchPrompt(area *models.Area) string {
	return fmt.Sprintf(`You are a local facilities researcher for Japan.
List publicly accessible trash bins and recycling boxes near %s
(center: %.6f, %.6f, roughly a 1km radius).

Respond with ONLY a JSON array. Each element:
{
  "name": {"ja": "...", "en": "...", "zh": "..."},
  "latitude": 35.681236,
  "longitude": 139.767125,
  "address": {"ja": "...", "en": "...", "zh": "..."},
  "trash_types": ["burnable", "plastic_bottle", "can", "glass", "paper", "plastic", "other"],
  "facility_type": "convenience_store|station|park|vending_machine|shopping_mall|restaurant|public_facility|other",
  "access_conditions": {"ja": "...", "en": "...", "zh": "..."},
  "operating_hours": {"ja": "...", "en": "...", "zh": "..."},
  "confidence": 0.0
}

Only include locations you are reasonably confident exist. Use a
confidence between 0 and 1. Return [] if you know none.`,
		area.Name.Resolve("en"), area.CenterLat, area.CenterLng)
}

// parseCandidates decodes a provider reply. Replies arrive either as a
// bare JSON array or wrapped in an object ({"bins": [...]} or
// {"results": [...]}), sometimes inside a markdown fence.
func parseCandidates(raw string) ([]Candidate, error) {
	text := stripFences(raw)

	var list []Candidate
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		TrashBins []Candidate `json:"trash_bins"`
		Bins      []Candidate `json:"bins"`
		Results   []Candidate `json:"results"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, fmt.Errorf("unparseable AI reply: %w", err)
	}
	if wrapped.TrashBins != nil {
		return wrapped.TrashBins, nil
	}
	if wrapped.Bins != nil {
		return wrapped.Bins, nil
	}
	if wrapped.Results != nil {
		return wrapped.Results, nil
	}
	return nil, fmt.Errorf("AI reply contained no candidate array")
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
