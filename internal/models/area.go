package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Polygon is a GeoJSON-style polygon: rings of [lng, lat] positions. Only
// the outer ring is used for containment checks.
type Polygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// OuterRing returns the polygon's first coordinate ring, or nil.
func (p *Polygon) OuterRing() [][2]float64 {
	if p == nil || len(p.Coordinates) == 0 {
		return nil
	}
	return p.Coordinates[0]
}

func (p Polygon) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Polygon) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into Polygon", src)
	}
}

// Area is a named geographic region used to scope AI research and listings.
type Area struct {
	ID        string        `json:"id" db:"id"`
	Name      LocalizedText `json:"name" db:"name"`
	CenterLat float64       `json:"-" db:"center_lat"`
	CenterLng float64       `json:"-" db:"center_lng"`
	ZoomLevel int           `json:"zoom_level" db:"zoom_level"`
	Boundary  *Polygon      `json:"boundary,omitempty" db:"boundary"`
	CreatedAt int64         `json:"-" db:"created_at"`
}

// AreaResponse is the API shape for an area.
type AreaResponse struct {
	ID        string        `json:"id"`
	Name      LocalizedText `json:"name"`
	Center    Location      `json:"center"`
	ZoomLevel int           `json:"zoom_level"`
	Boundary  *Polygon      `json:"boundary,omitempty"`
}

// ToResponse converts an Area row to its API shape.
func (a *Area) ToResponse() AreaResponse {
	return AreaResponse{
		ID:        a.ID,
		Name:      a.Name,
		Center:    Location{Lat: a.CenterLat, Lng: a.CenterLng},
		ZoomLevel: a.ZoomLevel,
		Boundary:  a.Boundary,
	}
}
