package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FoodScanner runs the scan pipeline for one uploaded image.
type FoodScanner interface {
	Scan(ctx context.Context, upload io.Reader) (*models.FoodEntry, error)
}

type FoodController struct {
	scanner   FoodScanner
	store     *services.FoodEntryStore
	dashboard *services.DashboardService
}

func NewFoodController(scanner FoodScanner, store *services.FoodEntryStore, dashboard *services.DashboardService) *FoodController {
	return &FoodController{scanner: scanner, store: store, dashboard: dashboard}
}

// POST /api/v1/scan
func (fc *FoodController) ScanFood(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}
	defer file.Close()

	entry, err := fc.scanner.Scan(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, services.ErrNoFoodDetected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not identify food item from image."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GET /api/v1/foods?limit=N
func (fc *FoodController) GetFoods(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultListLimit)))
	if err != nil {
		limit = services.DefaultListLimit
	}

	entries, err := fc.store.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"food_entries": entries})
}

// GET /api/v1/foods/:id
func (fc *FoodController) GetFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food entry id"})
		return
	}

	entry, err := fc.store.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Food entry with ID %d not found", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GET /api/v1/dashboard
func (fc *FoodController) GetDashboard(c *gin.Context) {
	stats, err := fc.dashboard.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	c.JSON(http.StatusOK, stats)
}
