package config

import (
	"log"
	"os"
	"strconv"

	"backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

const (
	defaultDailyCalories = 2500
	defaultScanQuantity  = 1
)

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatalf("DATABASE_URL not set")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(&models.FoodEntry{}); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// DailyCalorieTarget returns the configured daily calorie budget.
func DailyCalorieTarget() int {
	return intFromEnv("DEFAULT_DAILY_CALORIES", defaultDailyCalories)
}

// ScanQuantity returns the unit quantity used in nutrition queries ("1 apple").
func ScanQuantity() int {
	return intFromEnv("SCAN_QUANTITY", defaultScanQuantity)
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
