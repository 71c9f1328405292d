package airesearch

import (
	"fmt"

	"trashspot-backend/internal/geo"
	"trashspot-backend/internal/models"
)

const (
	confidenceBoost   = 0.25
	defaultConfidence = 0.7
)

// defaultName fills in for providers that return a location without one.
var defaultName = models.LocalizedText{
	"ja": "ゴミ箱",
	"en": "Trash bin",
	"zh": "垃圾箱",
}

// ValidateCandidate rejects malformed provider output before merging. A
// missing name is not fatal; MergeCandidates substitutes a generic one.
func ValidateCandidate(c *Candidate) error {
	if !geo.ValidLatLng(c.Latitude, c.Longitude) {
		return fmt.Errorf("invalid coordinates %.6f,%.6f", c.Latitude, c.Longitude)
	}
	if len(c.TrashTypes) == 0 {
		return fmt.Errorf("candidate has no trash types")
	}
	for _, t := range c.TrashTypes {
		if !models.IsValidTrashType(t) {
			return fmt.Errorf("unknown trash type %q", t)
		}
	}
	if !models.IsValidFacilityType(c.FacilityType) {
		return fmt.Errorf("unknown facility type %q", c.FacilityType)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence %.3f out of range", c.Confidence)
	}
	return nil
}

// mergeKey dedupes candidates at 6 decimal places, about 11cm, which far
// exceeds the precision an AI reply can claim.
func mergeKey(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// MergeCandidates combines the answers of all providers for one area.
// Invalid candidates are dropped and counted. When two providers name the
// same coordinates the trash type sets are unioned, the source count
// increments, confidence gains a corroboration boost capped at 1.0, and
// the later candidate's descriptive fields win.
func MergeCandidates(batches ...[]Candidate) (merged []Candidate, dropped int) {
	byKey := make(map[string]*Candidate)
	order := make([]string, 0)

	for _, batch := range batches {
		for _, c := range batch {
			c := c
			if err := ValidateCandidate(&c); err != nil {
				dropped++
				continue
			}
			if c.Confidence == 0 {
				c.Confidence = defaultConfidence
			}
			if len(c.Name) == 0 || c.Name.Resolve("en") == "" {
				c.Name = defaultName
			}

			key := mergeKey(c.Latitude, c.Longitude)
			prev, ok := byKey[key]
			if !ok {
				c.SourceCount = 1
				byKey[key] = &c
				order = append(order, key)
				continue
			}

			types := models.StringList(prev.TrashTypes).Union(c.TrashTypes)
			conf := prev.Confidence + confidenceBoost
			if conf > 1.0 {
				conf = 1.0
			}

			c.TrashTypes = types
			c.Confidence = conf
			c.SourceCount = prev.SourceCount + 1
			byKey[key] = &c
		}
	}

	merged = make([]Candidate, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}
	return merged, dropped
}

// BatchQualityScore grades one area's merged batch: weighted toward the
// average confidence, with a bonus share for multi-source corroboration.
func BatchQualityScore(batch []Candidate) float64 {
	if len(batch) == 0 {
		return 0
	}

	var confSum float64
	multi := 0
	for _, c := range batch {
		confSum += c.Confidence
		if c.SourceCount >= 2 {
			multi++
		}
	}

	avgConf := confSum / float64(len(batch))
	multiRatio := float64(multi) / float64(len(batch))
	return 0.7*avgConf + 0.3*multiRatio
}
