package main

import (
	"github.com/abela7/geez-restaurant-sub000/internal/costing"
	"github.com/abela7/geez-restaurant-sub000/internal/handler"
	mid "github.com/abela7/geez-restaurant-sub000/internal/middleware"
	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"github.com/abela7/geez-restaurant-sub000/pkg/config"
	"github.com/abela7/geez-restaurant-sub000/pkg/database"
	"github.com/abela7/geez-restaurant-sub000/pkg/jwtutil"
	"github.com/abela7/geez-restaurant-sub000/pkg/logger"
	"github.com/abela7/geez-restaurant-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting costing-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Run migrations
	err = database.MigrateModels(
		&model.Ingredient{},
		&model.MeasurementUnit{},
		&model.DishCost{},
		&model.DishIngredient{},
		&model.OverheadCost{},
		&model.DishCostHistory{},
		&model.MenuItem{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Install the loader retry policy from configuration
	handler.SetLoaderPolicy(costing.PolicyFromConfig(&appConfig.Loader))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Ingredient API routes
	ingredientAPI := e.Group("/api/ingredients", mid.AuthMiddleware)
	ingredientAPI.GET("", handler.ListIngredients)
	ingredientAPI.GET("/:id", handler.GetIngredient)
	ingredientAPI.POST("", handler.CreateIngredient)
	ingredientAPI.PUT("/:id", handler.UpdateIngredient)
	ingredientAPI.DELETE("/:id", handler.DeleteIngredient)

	// Measurement unit API routes
	unitAPI := e.Group("/api/units", mid.AuthMiddleware)
	unitAPI.GET("", handler.ListUnits)
	unitAPI.POST("", handler.CreateUnit)
	unitAPI.PUT("/:id", handler.UpdateUnit)
	unitAPI.DELETE("/:id", handler.DeleteUnit)

	// Dish cost API routes
	dishCostAPI := e.Group("/api/dish-costs", mid.AuthMiddleware)
	dishCostAPI.GET("", handler.ListDishCosts)
	dishCostAPI.GET("/overview", handler.GetCostOverview)
	dishCostAPI.GET("/:id", handler.GetDishCost)
	dishCostAPI.GET("/:id/history", handler.GetDishCostHistory)
	dishCostAPI.POST("", handler.CreateDishCost)
	dishCostAPI.PUT("/:id", handler.UpdateDishCost)
	dishCostAPI.DELETE("/:id", handler.DeleteDishCost)

	// Cost history API routes
	historyAPI := e.Group("/api/cost-history", mid.AuthMiddleware)
	historyAPI.GET("", handler.ListCostHistory)
	historyAPI.GET("/stats", handler.GetCostHistoryStats)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
