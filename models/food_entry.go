package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IngredientMap maps an ingredient's display text to its per-ingredient
// calorie estimate. The value is nil when the nutrition provider could not
// parse a figure for that ingredient. A nil map is stored as SQL NULL.
type IngredientMap map[string]*float64

func (m IngredientMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	return b, nil
}

func (m *IngredientMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported ingredients column type %T", value)
	}
	return json.Unmarshal(b, m)
}

// One scanned meal. Entries are append-only: no update or delete path exists.
type FoodEntry struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	ImageURL     string        `gorm:"type:varchar(255);not null" json:"image_url"`
	FoodName     string        `gorm:"type:varchar(100)" json:"food_name"`
	Calories     int           `json:"calories"`
	ProteinGrams int           `json:"protein_grams"`
	CarbGrams    int           `json:"carb_grams"`
	FatGrams     int           `json:"fat_grams"`
	Quantity     int           `gorm:"default:1" json:"quantity"`
	Ingredients  IngredientMap `gorm:"type:jsonb" json:"ingredients"`

	// Assigned by the database clock at insert time, never by application code.
	ScanTimestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"scan_timestamp"`
}

func (FoodEntry) TableName() string {
	return "food_entries"
}
