package airesearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trashspot-backend/internal/geo"
	"trashspot-backend/internal/models"
)

func TestMockProviderGeneratesNearbyBins(t *testing.T) {
	area := &models.Area{
		ID:        "shibuya",
		Name:      models.LocalizedText{"ja": "渋谷駅周辺", "en": "Shibuya Station Area"},
		CenterLat: 35.658034,
		CenterLng: 139.701636,
	}

	p := NewMockProvider(42)
	for run := 0; run < 10; run++ {
		got, err := p.Research(context.Background(), area)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), 2)
		require.LessOrEqual(t, len(got), 4)

		for _, c := range got {
			assert.NoError(t, ValidateCandidate(&c))
			assert.GreaterOrEqual(t, c.Confidence, 0.8)
			assert.LessOrEqual(t, c.Confidence, 1.0)

			d := geo.DistanceMeters(area.CenterLat, area.CenterLng, c.Latitude, c.Longitude)
			assert.Less(t, d, 1000.0)
		}
	}
}

func TestMockProviderDeterministicWithSeed(t *testing.T) {
	area := &models.Area{
		Name:      models.LocalizedText{"en": "Tokyo Station Area"},
		CenterLat: 35.681236,
		CenterLng: 139.767125,
	}

	a, err := NewMockProvider(7).Research(context.Background(), area)
	require.NoError(t, err)
	b, err := NewMockProvider(7).Research(context.Background(), area)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
