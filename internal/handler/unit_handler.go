package handler

import (
	"net/http"

	"github.com/abela7/geez-restaurant-sub000/internal/costing"
	"github.com/abela7/geez-restaurant-sub000/pkg/database"
	"github.com/abela7/geez-restaurant-sub000/pkg/logger"
	"github.com/abela7/geez-restaurant-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListUnits handles retrieving all measurement units
func ListUnits(c echo.Context) error {
	log := logger.FromContext(c)
	registry := costing.NewUnitRegistry(database.GetDB(), log)

	units, err := registry.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list measurement units", zap.Error(err))
		return engineError(c, err, "Failed to retrieve measurement units")
	}

	prometheus.RecordUnitOperation("list")
	return c.JSON(http.StatusOK, units)
}

// CreateUnit handles creating a new measurement unit
func CreateUnit(c echo.Context) error {
	log := logger.FromContext(c)

	var draft costing.UnitDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	registry := costing.NewUnitRegistry(database.GetDB(), log)
	unit, err := registry.Create(c.Request().Context(), draft)
	if err != nil {
		log.Error("Failed to create measurement unit",
			zap.String("name", draft.Name),
			zap.Error(err))
		return engineError(c, err, "Failed to create measurement unit")
	}

	prometheus.RecordUnitOperation("create")
	log.Info("Measurement unit created",
		zap.Uint("unit_id", unit.ID),
		zap.String("abbreviation", unit.Abbreviation))
	return c.JSON(http.StatusCreated, unit)
}

// UpdateUnit handles partially updating a measurement unit
func UpdateUnit(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit ID"})
	}

	var patch costing.UnitPatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid request data", zap.Uint("unit_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	registry := costing.NewUnitRegistry(database.GetDB(), log)
	unit, err := registry.Update(c.Request().Context(), id, patch)
	if err != nil {
		log.Error("Failed to update measurement unit", zap.Uint("unit_id", id), zap.Error(err))
		return engineError(c, err, "Failed to update measurement unit")
	}

	prometheus.RecordUnitOperation("update")
	return c.JSON(http.StatusOK, unit)
}

// DeleteUnit handles deleting a measurement unit when no ingredient uses it
func DeleteUnit(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid unit ID"})
	}

	registry := costing.NewUnitRegistry(database.GetDB(), log)
	if err := registry.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete measurement unit", zap.Uint("unit_id", id), zap.Error(err))
		return engineError(c, err, "Failed to delete measurement unit")
	}

	prometheus.RecordUnitOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Measurement unit deleted successfully"})
}
