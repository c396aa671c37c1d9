package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubScanner struct {
	entry *models.FoodEntry
	err   error
}

func (s *stubScanner) Scan(ctx context.Context, upload io.Reader) (*models.FoodEntry, error) {
	return s.entry, s.err
}

func newTestStore(t *testing.T) (*services.FoodEntryStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.FoodEntry{}))
	return services.NewFoodEntryStore(db), db
}

func newTestRouter(t *testing.T, scanner FoodScanner) (*gin.Engine, *services.FoodEntryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, _ := newTestStore(t)
	ctrl := NewFoodController(scanner, store, services.NewDashboardService(store, 2500))

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/scan", ctrl.ScanFood)
	v1.GET("/foods", ctrl.GetFoods)
	v1.GET("/foods/:id", ctrl.GetFood)
	v1.GET("/dashboard", ctrl.GetDashboard)
	return r, store
}

func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestScanFoodCreated(t *testing.T) {
	entry := &models.FoodEntry{
		ID: 1, ImageURL: "https://cdn/x.jpg", FoodName: "Apple",
		Calories: 95, Quantity: 1, ScanTimestamp: time.Now(),
	}
	r, _ := newTestRouter(t, &stubScanner{entry: entry})

	body, contentType := multipartUpload(t, "file", "meal.jpg", []byte("img"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got models.FoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Apple", got.FoodName)
	assert.Equal(t, 95, got.Calories)
}

func TestScanFoodUnprocessableWhenNoLabel(t *testing.T) {
	r, _ := newTestRouter(t, &stubScanner{err: services.ErrNoFoodDetected})

	body, contentType := multipartUpload(t, "file", "meal.jpg", []byte("img"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Could not identify food item")
}

func TestScanFoodInternalError(t *testing.T) {
	r, _ := newTestRouter(t, &stubScanner{err: errors.New("database gone")})

	body, contentType := multipartUpload(t, "file", "meal.jpg", []byte("img"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred")
}

func TestScanFoodRequiresFile(t *testing.T) {
	r, _ := newTestRouter(t, &stubScanner{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFoodsReturnsRecentFirst(t *testing.T) {
	r, store := newTestRouter(t, &stubScanner{})

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"Oldest", "Middle", "Newest"} {
		require.NoError(t, store.Create(&models.FoodEntry{
			ImageURL: "https://img/x.jpg", FoodName: name, Quantity: 1,
			ScanTimestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/foods?limit=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		FoodEntries []models.FoodEntry `json:"food_entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.FoodEntries, 2)
	assert.Equal(t, "Newest", resp.FoodEntries[0].FoodName)
	assert.Equal(t, "Middle", resp.FoodEntries[1].FoodName)
}

func TestGetFoodNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &stubScanner{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/foods/42", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Food entry with ID 42 not found")
}

func TestGetFoodByID(t *testing.T) {
	r, store := newTestRouter(t, &stubScanner{})

	entry := &models.FoodEntry{ImageURL: "https://img/a.jpg", FoodName: "Apple", Calories: 95, Quantity: 1}
	require.NoError(t, store.Create(entry))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/foods/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()

	// Identical reads while the store is unchanged.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/foods/1", nil))
	assert.Equal(t, first, w.Body.String())
}

func TestGetDashboard(t *testing.T) {
	r, store := newTestRouter(t, &stubScanner{})

	now := time.Now()
	for _, cal := range []int{400, 600, 1200} {
		require.NoError(t, store.Create(&models.FoodEntry{
			ImageURL: "https://img/x.jpg", Calories: cal, Quantity: 1, ScanTimestamp: now,
		}))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var stats services.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2200, stats.TotalCalories)
	assert.Equal(t, 300, stats.RemainingCalories)
}
