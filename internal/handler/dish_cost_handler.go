package handler

import (
	"net/http"
	"time"

	"github.com/abela7/geez-restaurant-sub000/internal/costing"
	"github.com/abela7/geez-restaurant-sub000/pkg/database"
	"github.com/abela7/geez-restaurant-sub000/pkg/logger"
	"github.com/abela7/geez-restaurant-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func newAggregator(log *zap.Logger) *costing.Aggregator {
	db := database.GetDB()
	return costing.NewAggregator(db, costing.NewHistoryLedger(db, log), log)
}

// loaderPolicy is the retry schedule for the bulk snapshot load,
// overridden from configuration at startup
var loaderPolicy = costing.DefaultRetryPolicy()

// SetLoaderPolicy installs the retry policy used by GetCostOverview
func SetLoaderPolicy(policy costing.RetryPolicy) {
	loaderPolicy = policy
}

// ListDishCosts handles retrieving all dish costs with their line items
func ListDishCosts(c echo.Context) error {
	log := logger.FromContext(c)
	aggregator := newAggregator(log)

	dishes, err := aggregator.ListAll(c.Request().Context())
	if err != nil {
		log.Error("Failed to list dish costs", zap.Error(err))
		return engineError(c, err, "Failed to retrieve dish costs")
	}

	prometheus.RecordDishCostOperation("list")
	return c.JSON(http.StatusOK, dishes)
}

// GetDishCost handles retrieving a single dish cost by ID
func GetDishCost(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid dish cost ID"})
	}

	aggregator := newAggregator(log)
	dish, err := aggregator.Get(c.Request().Context(), id)
	if err != nil {
		log.Error("Dish cost not found", zap.Uint("dish_cost_id", id), zap.Error(err))
		return engineError(c, err, "Failed to retrieve dish cost")
	}

	return c.JSON(http.StatusOK, dish)
}

// CreateDishCost handles creating a new dish cost
func CreateDishCost(c echo.Context) error {
	log := logger.FromContext(c)

	var draft costing.DishCostDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	aggregator := newAggregator(log)
	dish, err := aggregator.Create(c.Request().Context(), draft)
	if err != nil {
		log.Error("Failed to create dish cost",
			zap.String("dish_name", draft.DishName),
			zap.Error(err))
		return engineError(c, err, "Failed to create dish cost")
	}

	prometheus.RecordDishCostOperation("create")
	log.Info("Dish cost created",
		zap.Uint("dish_cost_id", dish.ID),
		zap.String("dish_name", dish.DishName),
		zap.Float64("total_cost", dish.TotalCost),
		zap.Float64("suggested_price", dish.SuggestedPrice))
	return c.JSON(http.StatusCreated, dish)
}

// UpdateDishCost handles partially updating a dish cost
func UpdateDishCost(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid dish cost ID"})
	}

	var patch costing.DishCostPatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid request data", zap.Uint("dish_cost_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	aggregator := newAggregator(log)
	dish, err := aggregator.Update(c.Request().Context(), id, patch)
	if err != nil {
		log.Error("Failed to update dish cost", zap.Uint("dish_cost_id", id), zap.Error(err))
		return engineError(c, err, "Failed to update dish cost")
	}

	prometheus.RecordDishCostOperation("update")
	return c.JSON(http.StatusOK, dish)
}

// DeleteDishCost handles deleting a dish cost and its line items
func DeleteDishCost(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid dish cost ID"})
	}

	aggregator := newAggregator(log)
	if err := aggregator.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete dish cost", zap.Uint("dish_cost_id", id), zap.Error(err))
		return engineError(c, err, "Failed to delete dish cost")
	}

	prometheus.RecordDishCostOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Dish cost deleted successfully"})
}

// GetCostOverview handles the bulk snapshot load backing the cost screens
func GetCostOverview(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("bulk_load")(time.Now())
	loader := costing.NewLoader(database.GetDB(), loaderPolicy, log)

	snapshot, err := loader.LoadAll(c.Request().Context())
	if err != nil {
		log.Error("Failed to load cost overview", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error": "Failed to load cost data, please try again",
		})
	}

	prometheus.RecordDishCostOperation("overview")
	return c.JSON(http.StatusOK, snapshot)
}
