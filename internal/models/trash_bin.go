package models

import "time"

// Trash type tags accepted by a bin.
const (
	TrashTypeBurnable      = "burnable"
	TrashTypePlasticBottle = "plastic_bottle"
	TrashTypeCan           = "can"
	TrashTypeGlass         = "glass"
	TrashTypePaper         = "paper"
	TrashTypePlastic       = "plastic"
	TrashTypeOther         = "other"
)

// TrashTypes lists every valid trash type tag.
var TrashTypes = []string{
	TrashTypeBurnable, TrashTypePlasticBottle, TrashTypeCan,
	TrashTypeGlass, TrashTypePaper, TrashTypePlastic, TrashTypeOther,
}

// FacilityTypes lists every valid facility type.
var FacilityTypes = []string{
	"convenience_store", "station", "park", "vending_machine",
	"shopping_mall", "restaurant", "public_facility", "other",
}

// IsValidTrashType reports whether tag is a known trash type.
func IsValidTrashType(tag string) bool {
	for _, t := range TrashTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// IsValidFacilityType reports whether t is a known facility type.
func IsValidFacilityType(t string) bool {
	for _, f := range FacilityTypes {
		if f == t {
			return true
		}
	}
	return false
}

// TrashBin is a physical waste receptacle record.
type TrashBin struct {
	ID               string         `json:"id" db:"id"`
	Name             LocalizedText  `json:"name" db:"name"`
	Latitude         float64        `json:"-" db:"latitude"`
	Longitude        float64        `json:"-" db:"longitude"`
	Address          LocalizedText  `json:"address" db:"address"`
	TrashTypes       StringList     `json:"trash_types" db:"trash_types"`
	FacilityType     string         `json:"facility_type" db:"facility_type"`
	AccessConditions *LocalizedText `json:"access_conditions,omitempty" db:"access_conditions"`
	OperatingHours   *LocalizedText `json:"operating_hours,omitempty" db:"operating_hours"`
	QualityScore     float64        `json:"quality_score" db:"quality_score"`
	TrustScore       float64        `json:"trust_score" db:"trust_score"`
	LastVerified     *int64         `json:"-" db:"last_verified"` // Unix timestamp
	AIVerified       bool           `json:"ai_verified" db:"ai_verified"`
	IsActive         bool           `json:"-" db:"is_active"`
	CreatedAt        int64          `json:"-" db:"created_at"` // Unix timestamp
	UpdatedAt        int64          `json:"-" db:"updated_at"` // Unix timestamp
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TrashBinResponse is the API shape for a bin, with ISO timestamps and an
// optional distance annotation filled in by the search service.
type TrashBinResponse struct {
	ID               string         `json:"id"`
	Name             LocalizedText  `json:"name"`
	Location         Location       `json:"location"`
	DistanceMeters   *int           `json:"distance_meters,omitempty"`
	Address          LocalizedText  `json:"address"`
	TrashTypes       StringList     `json:"trash_types"`
	FacilityType     string         `json:"facility_type"`
	AccessConditions *LocalizedText `json:"access_conditions,omitempty"`
	OperatingHours   *LocalizedText `json:"operating_hours,omitempty"`
	QualityScore     float64        `json:"quality_score"`
	TrustScore       float64        `json:"trust_score"`
	LastVerifiedIso  *string        `json:"last_verified,omitempty"`
	AIVerified       bool           `json:"ai_verified"`
}

// TrashBinDetail extends the response with corroboration history for the
// detail endpoint.
type TrashBinDetail struct {
	TrashBinResponse
	DataSources    []DataSource    `json:"data_sources"`
	QualityHistory []QualityMetric `json:"quality_history"`
	CreatedAtIso   string          `json:"created_at"`
	UpdatedAtIso   string          `json:"updated_at"`
}

// ToResponse converts a TrashBin row to its API shape.
func (b *TrashBin) ToResponse() TrashBinResponse {
	resp := TrashBinResponse{
		ID:               b.ID,
		Name:             b.Name,
		Location:         Location{Lat: b.Latitude, Lng: b.Longitude},
		Address:          b.Address,
		TrashTypes:       b.TrashTypes,
		FacilityType:     b.FacilityType,
		AccessConditions: b.AccessConditions,
		OperatingHours:   b.OperatingHours,
		QualityScore:     b.QualityScore,
		TrustScore:       b.TrustScore,
		AIVerified:       b.AIVerified,
	}

	if b.LastVerified != nil {
		iso := time.Unix(*b.LastVerified, 0).UTC().Format(time.RFC3339)
		resp.LastVerifiedIso = &iso
	}

	return resp
}

// DataSource records one corroborating source for a bin.
type DataSource struct {
	ID               string  `json:"id" db:"id"`
	TrashBinID       string  `json:"-" db:"trash_bin_id"`
	SourceType       string  `json:"source_type" db:"source_type"`
	ReliabilityScore float64 `json:"reliability_score" db:"reliability_score"`
	CollectedAt      int64   `json:"collected_at" db:"collected_at"`
}
