package services

import (
	"time"
)

// DashboardStats is today's running total against the configured daily target.
type DashboardStats struct {
	TotalCalories     int `json:"total_calories"`
	RemainingCalories int `json:"remaining_calories"`
	ProteinGrams      int `json:"protein_grams"`
	CarbGrams         int `json:"carb_grams"`
	FatGrams          int `json:"fat_grams"`
}

type DashboardService struct {
	store       *FoodEntryStore
	dailyTarget int
}

func NewDashboardService(store *FoodEntryStore, dailyTarget int) *DashboardService {
	return &DashboardService{store: store, dailyTarget: dailyTarget}
}

// Stats sums today's entries. RemainingCalories never goes negative.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	totals, err := s.store.SumForDay(time.Now())
	if err != nil {
		return nil, err
	}

	remaining := s.dailyTarget - totals.Calories
	if remaining < 0 {
		remaining = 0
	}

	return &DashboardStats{
		TotalCalories:     totals.Calories,
		RemainingCalories: remaining,
		ProteinGrams:      totals.Protein,
		CarbGrams:         totals.Carb,
		FatGrams:          totals.Fat,
	}, nil
}
