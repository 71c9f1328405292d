package airesearch

import (
	"context"
	"fmt"
	"math/rand"

	"trashspot-backend/internal/models"
)

// mockOffsetDeg keeps generated bins within roughly 500m of the area
// center (0.009 degrees is about 1km at Tokyo latitudes).
const mockOffsetDeg = 0.0045

var mockFacilities = []string{"convenience_store", "station", "park", "vending_machine"}

var mockTypeSets = [][]string{
	{models.TrashTypeBurnable, models.TrashTypePlasticBottle},
	{models.TrashTypeCan, models.TrashTypeGlass, models.TrashTypePlasticBottle},
	{models.TrashTypeBurnable},
	{models.TrashTypePaper, models.TrashTypePlastic},
}

// MockProvider synthesizes plausible candidates without network calls.
// It is selected automatically when no usable API key is configured.
type MockProvider struct {
	rng *rand.Rand
}

// NewMockProvider creates a mock provider with the given random seed.
func NewMockProvider(seed int64) *MockProvider {
	return &MockProvider{rng: rand.New(rand.NewSource(seed))}
}

// Name identifies the provider in audit rows.
func (p *MockProvider) Name() string { return "mock" }

// Research generates 2 to 4 bins scattered near the area center.
func (p *MockProvider) Research(_ context.Context, area *models.Area) ([]Candidate, error) {
	n := 2 + p.rng.Intn(3)
	out := make([]Candidate, 0, n)

	for i := 0; i < n; i++ {
		facility := mockFacilities[p.rng.Intn(len(mockFacilities))]
		types := mockTypeSets[p.rng.Intn(len(mockTypeSets))]

		nameJa := fmt.Sprintf("%sのゴミ箱 %d", area.Name.Resolve("ja"), i+1)
		nameEn := fmt.Sprintf("Trash bin near %s #%d", area.Name.Resolve("en"), i+1)

		out = append(out, Candidate{
			Name:      models.LocalizedText{"ja": nameJa, "en": nameEn, "zh": nameEn},
			Latitude:  area.CenterLat + (p.rng.Float64()*2-1)*mockOffsetDeg,
			Longitude: area.CenterLng + (p.rng.Float64()*2-1)*mockOffsetDeg,
			Address: models.LocalizedText{
				"ja": area.Name.Resolve("ja") + "付近",
				"en": "Near " + area.Name.Resolve("en"),
			},
			TrashTypes:   types,
			FacilityType: facility,
			Confidence:   0.8 + p.rng.Float64()*0.2,
		})
	}

	return out, nil
}
