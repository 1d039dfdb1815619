package costing

import (
	"context"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IngredientStore provides CRUD over raw ingredient records with in-use
// protection on delete.
type IngredientStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewIngredientStore creates an ingredient store backed by db
func NewIngredientStore(db *gorm.DB, log *zap.Logger) *IngredientStore {
	return &IngredientStore{db: db, log: log}
}

// IngredientDraft carries the fields for creating an ingredient
type IngredientDraft struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	CostPerUnit float64 `json:"cost_per_unit"`
	StockQty    float64 `json:"stock_quantity"`
	Category    string  `json:"category"`
}

// IngredientPatch carries a partial update; nil fields are left untouched
type IngredientPatch struct {
	Name        *string  `json:"name,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	CostPerUnit *float64 `json:"cost_per_unit,omitempty"`
	StockQty    *float64 `json:"stock_quantity,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// List returns all ingredients ordered by name
func (s *IngredientStore) List(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := s.db.WithContext(ctx).Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetByID returns a single ingredient
func (s *IngredientStore) GetByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFoundOrErr(err, "ingredient", id)
	}
	return &ingredient, nil
}

// Create persists a new ingredient. The unit is required.
func (s *IngredientStore) Create(ctx context.Context, draft IngredientDraft) (*model.Ingredient, error) {
	if draft.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name cannot be empty"}
	}
	if draft.Unit == "" {
		return nil, &ValidationError{Field: "unit", Reason: "unit cannot be empty"}
	}

	ingredient := model.Ingredient{
		Name:        draft.Name,
		Unit:        draft.Unit,
		CostPerUnit: draft.CostPerUnit,
		StockQty:    draft.StockQty,
		Category:    draft.Category,
	}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, err
	}

	s.log.Info("Ingredient created",
		zap.Uint("ingredient_id", ingredient.ID),
		zap.String("name", ingredient.Name),
		zap.String("unit", ingredient.Unit))
	return &ingredient, nil
}

// Update applies a partial update. An explicitly empty unit is rejected.
func (s *IngredientStore) Update(ctx context.Context, id uint, patch IngredientPatch) (*model.Ingredient, error) {
	if patch.Unit != nil && *patch.Unit == "" {
		return nil, &ValidationError{Field: "unit", Reason: "unit cannot be empty"}
	}

	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFoundOrErr(err, "ingredient", id)
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Unit != nil {
		updates["unit"] = *patch.Unit
	}
	if patch.CostPerUnit != nil {
		updates["cost_per_unit"] = *patch.CostPerUnit
	}
	if patch.StockQty != nil {
		updates["stock_quantity"] = *patch.StockQty
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if len(updates) == 0 {
		return &ingredient, nil
	}

	if err := s.db.WithContext(ctx).Model(&ingredient).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.log.Info("Ingredient updated",
		zap.Uint("ingredient_id", ingredient.ID),
		zap.String("name", ingredient.Name))
	return &ingredient, nil
}

// Delete removes an ingredient unless a dish cost line still references it
func (s *IngredientStore) Delete(ctx context.Context, id uint) error {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return notFoundOrErr(err, "ingredient", id)
	}

	var refs int64
	if err := s.db.WithContext(ctx).Model(&model.DishIngredient{}).
		Where("ingredient_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		s.log.Warn("Ingredient delete blocked",
			zap.Uint("ingredient_id", id),
			zap.Int64("dish_references", refs))
		return &InUseError{Resource: "ingredient", Reason: "ingredient is used in dish costs"}
	}

	if err := s.db.WithContext(ctx).Delete(&model.Ingredient{}, id).Error; err != nil {
		return err
	}

	s.log.Info("Ingredient deleted",
		zap.Uint("ingredient_id", id),
		zap.String("name", ingredient.Name))
	return nil
}
