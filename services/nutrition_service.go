package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"

	"backend/models"
)

const edamamNutritionURL = "https://api.edamam.com/api/nutrition-data"

// NutritionResult carries the nutrition profile for one food, or nothing at
// all: Found is false when the provider had no data or the call failed, and in
// that case every other field is zero.
type NutritionResult struct {
	Found        bool
	Calories     int
	ProteinGrams int
	CarbGrams    int
	FatGrams     int
	Ingredients  models.IngredientMap
}

// NutritionService looks up nutrition profiles via the Edamam nutrition-data API.
type NutritionService struct {
	appID    string
	appKey   string
	baseURL  string
	quantity int
	client   *http.Client
}

func NewNutritionService(quantity int) *NutritionService {
	return &NutritionService{
		appID:    os.Getenv("EDAMAM_APP_ID"),
		appKey:   os.Getenv("EDAMAM_APP_KEY"),
		baseURL:  edamamNutritionURL,
		quantity: quantity,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type nutrientQuantity struct {
	Quantity float64 `json:"quantity"`
}

type nutritionDataResponse struct {
	Calories       int                         `json:"calories"`
	TotalWeight    float64                     `json:"totalWeight"`
	TotalNutrients map[string]nutrientQuantity `json:"totalNutrients"`
	Ingredients    []struct {
		Text   string `json:"text"`
		Parsed []struct {
			Nutrients map[string]nutrientQuantity `json:"nutrients"`
		} `json:"parsed"`
	} `json:"ingredients"`
}

// Lookup queries nutrition data for a quantity-qualified food name
// (e.g. "1 apple"). Provider errors and empty results both degrade to an
// all-absent result; callers never see an error from this method.
func (s *NutritionService) Lookup(ctx context.Context, foodName string) NutritionResult {
	data, err := s.fetch(ctx, fmt.Sprintf("%d %s", s.quantity, foodName))
	if err != nil {
		log.Printf("Error with Edamam API: %v", err)
		return NutritionResult{}
	}

	// Zero weight with no calorie figure means the provider did not
	// recognize the food.
	if data.Calories == 0 && data.TotalWeight == 0 {
		log.Printf("No nutrition data found for: %s", foodName)
		return NutritionResult{}
	}

	res := NutritionResult{
		Found:        true,
		Calories:     data.Calories,
		ProteinGrams: roundQuantity(data.TotalNutrients["PROCNT"]),
		CarbGrams:    roundQuantity(data.TotalNutrients["CHOCDF"]),
		FatGrams:     roundQuantity(data.TotalNutrients["FAT"]),
	}

	if len(data.Ingredients) > 0 {
		breakdown := make(models.IngredientMap, len(data.Ingredients))
		for _, ing := range data.Ingredients {
			var kcal *float64
			if len(ing.Parsed) > 0 {
				if q, ok := ing.Parsed[0].Nutrients["ENERC_KCAL"]; ok {
					v := q.Quantity
					kcal = &v
				}
			}
			breakdown[ing.Text] = kcal
		}
		res.Ingredients = breakdown
	}

	return res
}

func (s *NutritionService) fetch(ctx context.Context, ingr string) (*nutritionDataResponse, error) {
	q := url.Values{}
	q.Set("app_id", s.appID)
	q.Set("app_key", s.appKey)
	q.Set("ingr", ingr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var data nutritionDataResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition JSON: %w", err)
	}
	return &data, nil
}

// Each macro rounds on its own; totals are summed from already-rounded values.
func roundQuantity(q nutrientQuantity) int {
	return int(math.Round(q.Quantity))
}
