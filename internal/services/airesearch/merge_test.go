package airesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashspot-backend/internal/models"
)

func validCandidate() Candidate {
	return Candidate{
		Name:         models.LocalizedText{"ja": "東京駅のゴミ箱", "en": "Tokyo Station bin"},
		Latitude:     35.681236,
		Longitude:    139.767125,
		Address:      models.LocalizedText{"en": "Marunouchi 1-chome"},
		TrashTypes:   []string{models.TrashTypeBurnable},
		FacilityType: "station",
		Confidence:   0.8,
	}
}

func TestValidateCandidateRejectsBadInput(t *testing.T) {
	c := validCandidate()
	require.NoError(t, ValidateCandidate(&c))

	bad := validCandidate()
	bad.Latitude = 91
	assert.Error(t, ValidateCandidate(&bad))

	// Nameless candidates are still usable; the merge fills in a generic name.
	ok := validCandidate()
	ok.Name = nil
	assert.NoError(t, ValidateCandidate(&ok))

	bad = validCandidate()
	bad.TrashTypes = []string{"nuclear"}
	assert.Error(t, ValidateCandidate(&bad))

	bad = validCandidate()
	bad.FacilityType = "spaceport"
	assert.Error(t, ValidateCandidate(&bad))

	bad = validCandidate()
	bad.Confidence = 1.2
	assert.Error(t, ValidateCandidate(&bad))
}

func TestMergeCandidatesUnionsDuplicates(t *testing.T) {
	a := validCandidate()
	a.TrashTypes = []string{models.TrashTypeBurnable, models.TrashTypeCan}

	b := validCandidate()
	b.TrashTypes = []string{models.TrashTypeCan, models.TrashTypeGlass}
	b.Confidence = 0.9

	merged, dropped := MergeCandidates([]Candidate{a}, []Candidate{b})
	require.Len(t, merged, 1)
	assert.Zero(t, dropped)

	got := merged[0]
	assert.Equal(t, 2, got.SourceCount)
	assert.ElementsMatch(t, []string{
		models.TrashTypeBurnable, models.TrashTypeCan, models.TrashTypeGlass,
	}, []string(got.TrashTypes))
	// First confidence 0.8 plus the corroboration boost.
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
}

func TestMergeCandidatesCapsConfidence(t *testing.T) {
	a := validCandidate()
	a.Confidence = 0.95
	b := validCandidate()

	merged, _ := MergeCandidates([]Candidate{a, b})
	require.Len(t, merged, 1)
	assert.Equal(t, 1.0, merged[0].Confidence)
}

func TestMergeCandidatesKeepsDistinctLocations(t *testing.T) {
	a := validCandidate()
	b := validCandidate()
	b.Latitude += 0.001 // ~111m away, a different bin

	merged, dropped := MergeCandidates([]Candidate{a, b})
	assert.Len(t, merged, 2)
	assert.Zero(t, dropped)
	assert.Equal(t, 1, merged[0].SourceCount)
	assert.Equal(t, 1, merged[1].SourceCount)
}

func TestMergeCandidatesDropsInvalid(t *testing.T) {
	good := validCandidate()
	bad := validCandidate()
	bad.TrashTypes = nil

	merged, dropped := MergeCandidates([]Candidate{good, bad})
	assert.Len(t, merged, 1)
	assert.Equal(t, 1, dropped)
}

func TestMergeCandidatesLastWriteWins(t *testing.T) {
	a := validCandidate()
	b := validCandidate()
	b.Name = models.LocalizedText{"en": "Renamed bin"}

	merged, _ := MergeCandidates([]Candidate{a}, []Candidate{b})
	require.Len(t, merged, 1)
	assert.Equal(t, "Renamed bin", merged[0].Name.Resolve("en"))
}

func TestMergeCandidatesDefaultsConfidence(t *testing.T) {
	a := validCandidate()
	a.Confidence = 0

	merged, _ := MergeCandidates([]Candidate{a})
	require.Len(t, merged, 1)
	assert.Equal(t, defaultConfidence, merged[0].Confidence)
}

func TestMergeCandidatesDefaultsName(t *testing.T) {
	a := validCandidate()
	a.Name = nil

	merged, dropped := MergeCandidates([]Candidate{a})
	require.Len(t, merged, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, "Trash bin", merged[0].Name.Resolve("en"))
	assert.Equal(t, "ゴミ箱", merged[0].Name.Resolve("ja"))
}

func TestBatchQualityScore(t *testing.T) {
	assert.Zero(t, BatchQualityScore(nil))

	// Two bins, confidence 0.8 each, one with two sources:
	// 0.7*0.8 + 0.3*0.5 = 0.71
	batch := []Candidate{
		{Confidence: 0.8, SourceCount: 2},
		{Confidence: 0.8, SourceCount: 1},
	}
	assert.InDelta(t, 0.71, BatchQualityScore(batch), 1e-9)
}

func TestParseCandidatesShapes(t *testing.T) {
	bare := `[{"name": "駅前ゴミ箱", "latitude": 35.68, "longitude": 139.76,
		"trash_types": ["burnable"], "facility_type": "station", "confidence": 0.8}]`
	got, err := parseCandidates(bare)
	require.NoError(t, err)
	require.Len(t, got, 1)
	// A bare string name fans out to every language.
	assert.Equal(t, "駅前ゴミ箱", got[0].Name.Resolve("ja"))
	assert.Equal(t, "駅前ゴミ箱", got[0].Name.Resolve("en"))

	for _, key := range []string{"trash_bins", "bins", "results"} {
		got, err = parseCandidates(`{"` + key + `": ` + bare + `}`)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}

	fenced := "```json\n" + bare + "\n```"
	got, err = parseCandidates(fenced)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = parseCandidates("I could not find any trash bins.")
	assert.Error(t, err)
}
