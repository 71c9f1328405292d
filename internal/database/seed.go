package database

import (
	"log"
	"time"

	"trashspot-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type seedBin struct {
	name             models.LocalizedText
	lat, lng         float64
	address          models.LocalizedText
	trashTypes       models.StringList
	facilityType     string
	accessConditions models.LocalizedText
	operatingHours   models.LocalizedText
}

type seedArea struct {
	name      models.LocalizedText
	lat, lng  float64
	zoomLevel int
	boundary  models.Polygon
}

func rectBoundary(minLng, minLat, maxLng, maxLat float64) models.Polygon {
	return models.Polygon{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{minLng, minLat},
			{maxLng, minLat},
			{maxLng, maxLat},
			{minLng, maxLat},
			{minLng, minLat},
		}},
	}
}

// SeedAreas inserts the initial Tokyo research areas. Idempotent: skips
// when rows already exist.
func SeedAreas(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM areas"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Areas already seeded, skipping...")
		return nil
	}

	areas := []seedArea{
		{
			name: models.LocalizedText{"ja": "東京駅周辺", "en": "Tokyo Station Area", "zh": "东京车站周边"},
			lat:  35.6812, lng: 139.7649, zoomLevel: 15,
			boundary: rectBoundary(139.7500, 35.6700, 139.7800, 35.6900),
		},
		{
			name: models.LocalizedText{"ja": "渋谷駅周辺", "en": "Shibuya Station Area", "zh": "涩谷站周边"},
			lat:  35.6598, lng: 139.7023, zoomLevel: 15,
			boundary: rectBoundary(139.6900, 35.6500, 139.7150, 35.6700),
		},
		{
			name: models.LocalizedText{"ja": "新宿駅周辺", "en": "Shinjuku Station Area", "zh": "新宿站周边"},
			lat:  35.6938, lng: 139.7034, zoomLevel: 15,
			boundary: rectBoundary(139.6900, 35.6830, 139.7150, 35.7050),
		},
		{
			name: models.LocalizedText{"ja": "浅草周辺", "en": "Asakusa Area", "zh": "浅草周边"},
			lat:  35.7148, lng: 139.7967, zoomLevel: 15,
			boundary: rectBoundary(139.7850, 35.7050, 139.8100, 35.7250),
		},
	}

	log.Printf("🌱 Seeding %d areas...", len(areas))
	now := time.Now().Unix()

	insert := db.Rebind(`
		INSERT INTO areas (id, name, center_lat, center_lng, zoom_level, boundary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for _, a := range areas {
		if _, err := db.Exec(insert, uuid.New().String(), a.name, a.lat, a.lng, a.zoomLevel, a.boundary, now); err != nil {
			return err
		}
	}

	log.Println("✅ Areas seeded")
	return nil
}

// SeedTrashBins inserts the initial Tokyo bin dataset. Idempotent.
func SeedTrashBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM trash_bins"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Trash bins already seeded, skipping...")
		return nil
	}

	bins := []seedBin{
		{
			name: models.LocalizedText{"ja": "東京駅八重洲口コンビニ前", "en": "Tokyo Station Yaesu Convenience Store", "zh": "东京车站八重洲口便利店前"},
			lat:  35.6812, lng: 139.7671,
			address:          models.LocalizedText{"ja": "東京都千代田区丸の内1-9-1", "en": "1-9-1 Marunouchi, Chiyoda City, Tokyo", "zh": "东京都千代田区丸之内1-9-1"},
			trashTypes:       models.StringList{"burnable", "plastic_bottle", "can"},
			facilityType:     "convenience_store",
			accessConditions: models.LocalizedText{"ja": "営業時間内のみ", "en": "During business hours only", "zh": "仅营业时间内"},
			operatingHours:   models.LocalizedText{"ja": "24時間", "en": "24 hours", "zh": "24小时"},
		},
		{
			name: models.LocalizedText{"ja": "東京駅構内リサイクルボックス", "en": "Tokyo Station Recycling Box", "zh": "东京车站内回收箱"},
			lat:  35.6812, lng: 139.7649,
			address:          models.LocalizedText{"ja": "東京都千代田区丸の内1-9-1", "en": "1-9-1 Marunouchi, Chiyoda City, Tokyo", "zh": "东京都千代田区丸之内1-9-1"},
			trashTypes:       models.StringList{"plastic_bottle", "can", "paper"},
			facilityType:     "station",
			accessConditions: models.LocalizedText{"ja": "誰でも利用可能", "en": "Available to everyone", "zh": "所有人均可使用"},
			operatingHours:   models.LocalizedText{"ja": "始発〜終電", "en": "First train to last train", "zh": "首班车至末班车"},
		},
		{
			name: models.LocalizedText{"ja": "渋谷センター街入口", "en": "Shibuya Center Gai Entrance", "zh": "涩谷中心街入口"},
			lat:  35.6598, lng: 139.7023,
			address:          models.LocalizedText{"ja": "東京都渋谷区宇田川町", "en": "Udagawacho, Shibuya City, Tokyo", "zh": "东京都涩谷区宇田川町"},
			trashTypes:       models.StringList{"burnable"},
			facilityType:     "public_facility",
			accessConditions: models.LocalizedText{"ja": "誰でも利用可能", "en": "Available to everyone", "zh": "所有人均可使用"},
			operatingHours:   models.LocalizedText{"ja": "24時間", "en": "24 hours", "zh": "24小时"},
		},
		{
			name: models.LocalizedText{"ja": "渋谷駅ハチ公口自販機", "en": "Shibuya Station Hachiko Exit Vending Machine", "zh": "涩谷站八公口自动售货机"},
			lat:  35.6590, lng: 139.7016,
			address:          models.LocalizedText{"ja": "東京都渋谷区道玄坂", "en": "Dogenzaka, Shibuya City, Tokyo", "zh": "东京都涩谷区道玄坂"},
			trashTypes:       models.StringList{"plastic_bottle", "can"},
			facilityType:     "vending_machine",
			accessConditions: models.LocalizedText{"ja": "購入者のみ", "en": "Customers only", "zh": "仅限购买者"},
			operatingHours:   models.LocalizedText{"ja": "24時間", "en": "24 hours", "zh": "24小时"},
		},
		{
			name: models.LocalizedText{"ja": "新宿公園ゴミ箱", "en": "Shinjuku Park Trash Bin", "zh": "新宿公园垃圾桶"},
			lat:  35.6938, lng: 139.7034,
			address:          models.LocalizedText{"ja": "東京都新宿区内藤町11", "en": "11 Naitocho, Shinjuku City, Tokyo", "zh": "东京都新宿区内藤町11"},
			trashTypes:       models.StringList{"burnable", "plastic_bottle", "can", "paper"},
			facilityType:     "park",
			accessConditions: models.LocalizedText{"ja": "誰でも利用可能", "en": "Available to everyone", "zh": "所有人均可使用"},
			operatingHours:   models.LocalizedText{"ja": "6:00-18:00", "en": "6:00-18:00", "zh": "6:00-18:00"},
		},
		{
			name: models.LocalizedText{"ja": "浅草寺境内", "en": "Sensoji Temple Grounds", "zh": "浅草寺境内"},
			lat:  35.7148, lng: 139.7967,
			address:          models.LocalizedText{"ja": "東京都台東区浅草2-3-1", "en": "2-3-1 Asakusa, Taito City, Tokyo", "zh": "东京都台东区浅草2-3-1"},
			trashTypes:       models.StringList{"burnable"},
			facilityType:     "public_facility",
			accessConditions: models.LocalizedText{"ja": "参拝者のみ", "en": "Visitors only", "zh": "仅限参拜者"},
			operatingHours:   models.LocalizedText{"ja": "6:00-17:00", "en": "6:00-17:00", "zh": "6:00-17:00"},
		},
		{
			name: models.LocalizedText{"ja": "竹下通りファミリーマート", "en": "Takeshita Street FamilyMart", "zh": "竹下通全家便利店"},
			lat:  35.6702, lng: 139.7063,
			address:          models.LocalizedText{"ja": "東京都渋谷区神宮前1-19-11", "en": "1-19-11 Jingumae, Shibuya City, Tokyo", "zh": "东京都涩谷区神宫前1-19-11"},
			trashTypes:       models.StringList{"burnable", "plastic_bottle", "can"},
			facilityType:     "convenience_store",
			accessConditions: models.LocalizedText{"ja": "店舗利用者のみ", "en": "Store customers only", "zh": "仅限店铺顾客"},
			operatingHours:   models.LocalizedText{"ja": "24時間", "en": "24 hours", "zh": "24小时"},
		},
		{
			name: models.LocalizedText{"ja": "銀座中央通りリサイクル", "en": "Ginza Chuo-dori Recycling", "zh": "银座中央通回收点"},
			lat:  35.6762, lng: 139.7653,
			address:          models.LocalizedText{"ja": "東京都中央区銀座4-6-16", "en": "4-6-16 Ginza, Chuo City, Tokyo", "zh": "东京都中央区银座4-6-16"},
			trashTypes:       models.StringList{"plastic_bottle", "can", "glass", "paper"},
			facilityType:     "public_facility",
			accessConditions: models.LocalizedText{"ja": "誰でも利用可能", "en": "Available to everyone", "zh": "所有人均可使用"},
			operatingHours:   models.LocalizedText{"ja": "8:00-20:00", "en": "8:00-20:00", "zh": "8:00-20:00"},
		},
	}

	log.Printf("🌱 Seeding %d trash bins...", len(bins))
	now := time.Now().Unix()

	insertBin := db.Rebind(`
		INSERT INTO trash_bins (
			id, name, latitude, longitude, address, trash_types, facility_type,
			access_conditions, operating_hours, quality_score, trust_score,
			last_verified, ai_verified, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	insertSource := db.Rebind(`
		INSERT INTO data_sources (id, trash_bin_id, source_type, reliability_score, collected_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	for _, b := range bins {
		binID := uuid.New().String()
		_, err := db.Exec(insertBin,
			binID, b.name, b.lat, b.lng, b.address, b.trashTypes, b.facilityType,
			b.accessConditions, b.operatingHours, 0.8, 0.9,
			now, false, true, now, now,
		)
		if err != nil {
			return err
		}

		// Seed data counts as one manually curated source.
		_, err = db.Exec(insertSource, uuid.New().String(), binID, "manual", 0.9, now)
		if err != nil {
			return err
		}
	}

	log.Println("✅ Trash bins seeded")
	return nil
}

// SeedAdminUser creates the default admin account when no users exist.
func SeedAdminUser(db *sqlx.DB, email, password string) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	insert := db.Rebind(`
		INSERT INTO users (id, email, password, name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if _, err := db.Exec(insert, uuid.New().String(), email, string(hash), "Administrator", "admin", now, now); err != nil {
		return err
	}

	log.Printf("✅ Admin user seeded: %s", email)
	return nil
}
