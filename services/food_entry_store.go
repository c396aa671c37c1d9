package services

import (
	"fmt"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

const (
	// DefaultListLimit applies when the client does not send a usable limit.
	DefaultListLimit = 10
	// MaxListLimit caps the recent-entries query so a client cannot request
	// an unbounded result set.
	MaxListLimit = 100
)

// DailyTotals holds summed nutrition figures for one day; absent values were
// already stored as zero, so plain sums are correct.
type DailyTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carb     int `json:"carb"`
	Fat      int `json:"fat"`
}

// FoodEntryStore is the persistence layer for food entries. Entries are
// append-only; there is no update or delete.
type FoodEntryStore struct {
	db *gorm.DB
}

func NewFoodEntryStore(db *gorm.DB) *FoodEntryStore {
	return &FoodEntryStore{db: db}
}

// Create inserts the entry and reloads it so the generated id and the
// database-assigned timestamp are populated.
func (s *FoodEntryStore) Create(entry *models.FoodEntry) error {
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create food entry: %w", err)
	}
	if err := s.db.First(entry, entry.ID).Error; err != nil {
		return fmt.Errorf("failed to reload food entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries ordered newest first. Out-of-range
// limits fall back to the default or the cap.
func (s *FoodEntryStore) ListRecent(limit int) ([]models.FoodEntry, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var entries []models.FoodEntry
	if err := s.db.Order("scan_timestamp DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list food entries: %w", err)
	}
	return entries, nil
}

// GetByID returns one entry, or gorm.ErrRecordNotFound when it does not exist.
func (s *FoodEntryStore) GetByID(id uint) (*models.FoodEntry, error) {
	var entry models.FoodEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// SumForDay sums calories and macros over all entries whose timestamp falls
// on the given day.
func (s *FoodEntryStore) SumForDay(day time.Time) (DailyTotals, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var totals DailyTotals
	err := s.db.Model(&models.FoodEntry{}).
		Select("COALESCE(SUM(calories), 0) AS calories, " +
			"COALESCE(SUM(protein_grams), 0) AS protein, " +
			"COALESCE(SUM(carb_grams), 0) AS carb, " +
			"COALESCE(SUM(fat_grams), 0) AS fat").
		Where("scan_timestamp >= ? AND scan_timestamp < ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return DailyTotals{}, fmt.Errorf("failed to sum food entries: %w", err)
	}
	return totals, nil
}
