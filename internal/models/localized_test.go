package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFallbackChain(t *testing.T) {
	full := LocalizedText{"ja": "ゴミ箱", "en": "Trash bin", "zh": "垃圾箱"}
	assert.Equal(t, "垃圾箱", full.Resolve("zh"))
	assert.Equal(t, "ゴミ箱", full.Resolve("ja"))

	// Missing language falls back to English, then Japanese.
	noZh := LocalizedText{"ja": "ゴミ箱", "en": "Trash bin"}
	assert.Equal(t, "Trash bin", noZh.Resolve("zh"))

	jaOnly := LocalizedText{"ja": "ゴミ箱"}
	assert.Equal(t, "ゴミ箱", jaOnly.Resolve("en"))

	// No preferred language at all: first non-empty by sorted key.
	other := LocalizedText{"ko": "쓰레기통"}
	assert.Equal(t, "쓰레기통", other.Resolve("en"))

	assert.Equal(t, "", LocalizedText{}.Resolve("en"))
	assert.Equal(t, "", LocalizedText(nil).Resolve("en"))
}

func TestLocalizedTextUnmarshalAcceptsBareString(t *testing.T) {
	var l LocalizedText
	require.NoError(t, json.Unmarshal([]byte(`"駅前のゴミ箱"`), &l))
	assert.Equal(t, "駅前のゴミ箱", l["ja"])
	assert.Equal(t, "駅前のゴミ箱", l["en"])

	require.NoError(t, json.Unmarshal([]byte(`{"ja": "ゴミ箱", "en": "Bin"}`), &l))
	assert.Equal(t, "Bin", l["en"])

	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
}

func TestLocalizedTextRoundTripsThroughSQL(t *testing.T) {
	l := LocalizedText{"ja": "ゴミ箱", "en": "Trash bin"}
	v, err := l.Value()
	require.NoError(t, err)

	var got LocalizedText
	require.NoError(t, got.Scan(v))
	assert.Equal(t, l, got)

	var fromNil LocalizedText
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestStringListSetOperations(t *testing.T) {
	s := StringList{"can", "glass"}
	assert.True(t, s.Contains("can"))
	assert.False(t, s.Contains("paper"))

	assert.True(t, s.Intersects([]string{"paper", "glass"}))
	assert.False(t, s.Intersects([]string{"paper"}))
	assert.False(t, s.Intersects(nil))

	union := s.Union([]string{"glass", "paper"})
	assert.Equal(t, StringList{"can", "glass", "paper"}, union)
}

func TestPolygonOuterRing(t *testing.T) {
	p := &Polygon{
		Type: "Polygon",
		Coordinates: [][][2]float64{
			{{139.76, 35.67}, {139.78, 35.67}, {139.78, 35.69}, {139.76, 35.69}, {139.76, 35.67}},
		},
	}
	assert.Len(t, p.OuterRing(), 5)

	var empty Polygon
	assert.Nil(t, empty.OuterRing())
	assert.Nil(t, (*Polygon)(nil).OuterRing())
}

func TestTrashBinToResponse(t *testing.T) {
	verified := int64(1700000000)
	bin := TrashBin{
		ID:           "bin-1",
		Name:         LocalizedText{"en": "Station bin"},
		Latitude:     35.681236,
		Longitude:    139.767125,
		TrashTypes:   StringList{"burnable"},
		FacilityType: "station",
		QualityScore: 0.8,
		TrustScore:   0.9,
		LastVerified: &verified,
		AIVerified:   true,
	}

	resp := bin.ToResponse()
	assert.Equal(t, "bin-1", resp.ID)
	assert.Equal(t, 35.681236, resp.Location.Lat)
	assert.Equal(t, 139.767125, resp.Location.Lng)
	require.NotNil(t, resp.LastVerifiedIso)
	assert.Equal(t, "2023-11-14T22:13:20Z", *resp.LastVerifiedIso)
	assert.Nil(t, resp.DistanceMeters)
}
