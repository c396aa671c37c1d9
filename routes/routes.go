package routes

import (
	"log"
	"time"

	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	globalRateLimit = 100
	scanRateLimit   = 5
	rateWindow      = 60 * time.Second
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	storage, err := services.NewStorageService()
	if err != nil {
		log.Fatalf("Failed to init storage service: %v", err)
	}
	vision, err := services.NewVisionService()
	if err != nil {
		log.Fatalf("Failed to init vision service: %v", err)
	}
	nutrition := services.NewNutritionService(config.ScanQuantity())

	store := services.NewFoodEntryStore(db)
	scanner := services.NewScanService(storage, vision, nutrition, store)
	dashboard := services.NewDashboardService(store, config.DailyCalorieTarget())

	ctrl := controllers.NewFoodController(scanner, store, dashboard)

	return setup(ctrl)
}

func setup(ctrl *controllers.FoodController) *gin.Engine {
	r := gin.Default()

	// Proof-of-concept posture: every origin, method and header is allowed.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))

	r.Use(middlewares.RateLimit(middlewares.NewFixedWindowLimiter(globalRateLimit, rateWindow)))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to Cal Snap API"})
	})

	v1 := r.Group("/api/v1")
	{
		scanLimiter := middlewares.NewFixedWindowLimiter(scanRateLimit, rateWindow)
		v1.POST("/scan", middlewares.RateLimit(scanLimiter), ctrl.ScanFood)
		v1.GET("/foods", ctrl.GetFoods)
		v1.GET("/foods/:id", ctrl.GetFood)
		v1.GET("/dashboard", ctrl.GetDashboard)
	}

	return r
}
