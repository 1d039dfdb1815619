package costing

import (
	"context"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitRegistry provides CRUD over measurement units with in-use
// protection on delete.
type UnitRegistry struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUnitRegistry creates a unit registry backed by db
func NewUnitRegistry(db *gorm.DB, log *zap.Logger) *UnitRegistry {
	return &UnitRegistry{db: db, log: log}
}

// UnitDraft carries the fields for creating a measurement unit
type UnitDraft struct {
	Name             string   `json:"name"`
	Abbreviation     string   `json:"abbreviation"`
	Type             string   `json:"type"`
	Description      string   `json:"description"`
	BaseUnitID       *uint    `json:"base_unit_id,omitempty"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
}

// UnitPatch carries a partial update; nil fields are left untouched
type UnitPatch struct {
	Name             *string  `json:"name,omitempty"`
	Abbreviation     *string  `json:"abbreviation,omitempty"`
	Type             *string  `json:"type,omitempty"`
	Description      *string  `json:"description,omitempty"`
	BaseUnitID       *uint    `json:"base_unit_id,omitempty"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
}

// List returns all measurement units ordered by name
func (r *UnitRegistry) List(ctx context.Context) ([]model.MeasurementUnit, error) {
	var units []model.MeasurementUnit
	if err := r.db.WithContext(ctx).Order("name asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Create persists a new measurement unit
func (r *UnitRegistry) Create(ctx context.Context, draft UnitDraft) (*model.MeasurementUnit, error) {
	if draft.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name cannot be empty"}
	}
	if draft.Abbreviation == "" {
		return nil, &ValidationError{Field: "abbreviation", Reason: "abbreviation cannot be empty"}
	}

	unit := model.MeasurementUnit{
		Name:             draft.Name,
		Abbreviation:     draft.Abbreviation,
		Type:             draft.Type,
		Description:      draft.Description,
		BaseUnitID:       draft.BaseUnitID,
		ConversionFactor: draft.ConversionFactor,
	}
	if err := r.db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, err
	}

	r.log.Info("Measurement unit created",
		zap.Uint("unit_id", unit.ID),
		zap.String("name", unit.Name),
		zap.String("abbreviation", unit.Abbreviation))
	return &unit, nil
}

// Update applies a partial update to a measurement unit
func (r *UnitRegistry) Update(ctx context.Context, id uint, patch UnitPatch) (*model.MeasurementUnit, error) {
	if patch.Abbreviation != nil && *patch.Abbreviation == "" {
		return nil, &ValidationError{Field: "abbreviation", Reason: "abbreviation cannot be empty"}
	}

	var unit model.MeasurementUnit
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, notFoundOrErr(err, "measurement unit", id)
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Abbreviation != nil {
		updates["abbreviation"] = *patch.Abbreviation
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.BaseUnitID != nil {
		updates["base_unit_id"] = *patch.BaseUnitID
	}
	if patch.ConversionFactor != nil {
		updates["conversion_factor"] = *patch.ConversionFactor
	}
	if len(updates) == 0 {
		return &unit, nil
	}

	if err := r.db.WithContext(ctx).Model(&unit).Updates(updates).Error; err != nil {
		return nil, err
	}

	r.log.Info("Measurement unit updated",
		zap.Uint("unit_id", unit.ID),
		zap.String("name", unit.Name))
	return &unit, nil
}

// Delete removes a measurement unit unless an ingredient still uses it.
// Ingredients store the unit as an abbreviation string, so the check
// matches on abbreviation; abbreviations carry a unique index.
func (r *UnitRegistry) Delete(ctx context.Context, id uint) error {
	var unit model.MeasurementUnit
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return notFoundOrErr(err, "measurement unit", id)
	}

	var refs int64
	if err := r.db.WithContext(ctx).Model(&model.Ingredient{}).
		Where("unit = ?", unit.Abbreviation).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		r.log.Warn("Unit delete blocked",
			zap.Uint("unit_id", id),
			zap.String("abbreviation", unit.Abbreviation),
			zap.Int64("ingredient_references", refs))
		return &InUseError{Resource: "measurement unit", Reason: "unit is used by ingredients"}
	}

	if err := r.db.WithContext(ctx).Delete(&model.MeasurementUnit{}, id).Error; err != nil {
		return err
	}

	r.log.Info("Measurement unit deleted",
		zap.Uint("unit_id", id),
		zap.String("name", unit.Name))
	return nil
}
