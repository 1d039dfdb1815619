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

// ListIngredients handles retrieving all ingredients
func ListIngredients(c echo.Context) error {
	log := logger.FromContext(c)
	store := costing.NewIngredientStore(database.GetDB(), log)

	ingredients, err := store.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list ingredients", zap.Error(err))
		return engineError(c, err, "Failed to retrieve ingredients")
	}

	prometheus.RecordIngredientOperation("list")
	return c.JSON(http.StatusOK, ingredients)
}

// GetIngredient handles retrieving a single ingredient by ID
func GetIngredient(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid ingredient ID"})
	}

	store := costing.NewIngredientStore(database.GetDB(), log)
	ingredient, err := store.GetByID(c.Request().Context(), id)
	if err != nil {
		log.Error("Ingredient not found", zap.Uint("ingredient_id", id), zap.Error(err))
		return engineError(c, err, "Failed to retrieve ingredient")
	}

	return c.JSON(http.StatusOK, ingredient)
}

// CreateIngredient handles creating a new ingredient
func CreateIngredient(c echo.Context) error {
	log := logger.FromContext(c)

	var draft costing.IngredientDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	store := costing.NewIngredientStore(database.GetDB(), log)
	ingredient, err := store.Create(c.Request().Context(), draft)
	if err != nil {
		log.Error("Failed to create ingredient",
			zap.String("name", draft.Name),
			zap.Error(err))
		return engineError(c, err, "Failed to create ingredient")
	}

	prometheus.RecordIngredientOperation("create")
	log.Info("Ingredient created",
		zap.Uint("ingredient_id", ingredient.ID),
		zap.String("name", ingredient.Name))
	return c.JSON(http.StatusCreated, ingredient)
}

// UpdateIngredient handles partially updating an ingredient
func UpdateIngredient(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid ingredient ID"})
	}

	var patch costing.IngredientPatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Invalid request data", zap.Uint("ingredient_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	store := costing.NewIngredientStore(database.GetDB(), log)
	ingredient, err := store.Update(c.Request().Context(), id, patch)
	if err != nil {
		log.Error("Failed to update ingredient", zap.Uint("ingredient_id", id), zap.Error(err))
		return engineError(c, err, "Failed to update ingredient")
	}

	prometheus.RecordIngredientOperation("update")
	return c.JSON(http.StatusOK, ingredient)
}

// DeleteIngredient handles deleting an ingredient when no dish uses it
func DeleteIngredient(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid ingredient ID"})
	}

	store := costing.NewIngredientStore(database.GetDB(), log)
	if err := store.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete ingredient", zap.Uint("ingredient_id", id), zap.Error(err))
		return engineError(c, err, "Failed to delete ingredient")
	}

	prometheus.RecordIngredientOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Ingredient deleted successfully"})
}
