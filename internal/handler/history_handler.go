package handler

import (
	"net/http"

	"github.com/abela7/geez-restaurant-sub000/internal/costing"
	"github.com/abela7/geez-restaurant-sub000/pkg/database"
	"github.com/abela7/geez-restaurant-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCostHistory handles retrieving the full cost history ledger
func ListCostHistory(c echo.Context) error {
	log := logger.FromContext(c)
	ledger := costing.NewHistoryLedger(database.GetDB(), log)

	entries, err := ledger.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list cost history", zap.Error(err))
		return engineError(c, err, "Failed to retrieve cost history")
	}

	return c.JSON(http.StatusOK, entries)
}

// GetDishCostHistory handles retrieving the history for one dish
func GetDishCostHistory(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid dish cost ID"})
	}

	ledger := costing.NewHistoryLedger(database.GetDB(), log)
	entries, err := ledger.HistoryFor(c.Request().Context(), id)
	if err != nil {
		log.Error("Failed to load dish cost history", zap.Uint("dish_cost_id", id), zap.Error(err))
		return engineError(c, err, "Failed to retrieve cost history")
	}

	return c.JSON(http.StatusOK, entries)
}

// GetCostHistoryStats handles the ledger statistics endpoint
func GetCostHistoryStats(c echo.Context) error {
	log := logger.FromContext(c)
	ledger := costing.NewHistoryLedger(database.GetDB(), log)

	avg, err := ledger.AverageDelta(c.Request().Context())
	if err != nil {
		log.Error("Failed to compute cost history stats", zap.Error(err))
		return engineError(c, err, "Failed to compute cost history statistics")
	}

	return c.JSON(http.StatusOK, echo.Map{"average_delta": avg})
}
