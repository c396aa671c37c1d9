package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"backend/models"
)

// ErrNoFoodDetected means the vision step produced no usable food label. The
// request is unprocessable; nothing is persisted.
var ErrNoFoodDetected = errors.New("could not identify food item from image")

// ImageUploader stores an image file and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// LabelDetector picks the best food label for an image, or reports none.
type LabelDetector interface {
	DetectLabel(ctx context.Context, imageURL string) (string, bool)
}

// NutritionLookup resolves a food name to its nutrition profile.
type NutritionLookup interface {
	Lookup(ctx context.Context, foodName string) NutritionResult
}

// ScanService runs the food-scan pipeline: persist the upload to a temp file,
// push it to storage, identify the food, look up nutrition, persist an entry.
// The steps are strictly sequential; each depends on the previous result.
type ScanService struct {
	uploader  ImageUploader
	detector  LabelDetector
	nutrition NutritionLookup
	store     *FoodEntryStore
}

func NewScanService(uploader ImageUploader, detector LabelDetector, nutrition NutritionLookup, store *FoodEntryStore) *ScanService {
	return &ScanService{
		uploader:  uploader,
		detector:  detector,
		nutrition: nutrition,
		store:     store,
	}
}

// Scan ingests one uploaded image and returns the persisted entry. A missing
// label aborts with ErrNoFoodDetected; missing nutrition detail does not
// abort, the entry is stored with zero macros and no ingredient breakdown.
func (s *ScanService) Scan(ctx context.Context, upload io.Reader) (*models.FoodEntry, error) {
	tmp, err := os.CreateTemp("", "calsnap-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, upload); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	imageURL, err := s.uploader.Upload(ctx, tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	label, ok := s.detector.DetectLabel(ctx, imageURL)
	if !ok {
		return nil, ErrNoFoodDetected
	}

	nut := s.nutrition.Lookup(ctx, label)

	entry := &models.FoodEntry{
		ImageURL:     imageURL,
		FoodName:     label,
		Calories:     nut.Calories,
		ProteinGrams: nut.ProteinGrams,
		CarbGrams:    nut.CarbGrams,
		FatGrams:     nut.FatGrams,
		Quantity:     1,
		Ingredients:  nut.Ingredients,
	}

	if err := s.store.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
