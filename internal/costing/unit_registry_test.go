package costing

import (
	"context"
	"errors"
	"testing"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"gorm.io/gorm"
)

func TestUnitCreateValidation(t *testing.T) {
	registry := NewUnitRegistry(newTestDB(t), testLogger())

	if _, err := registry.Create(context.Background(), UnitDraft{Name: "", Abbreviation: "kg"}); !IsValidation(err) {
		t.Errorf("expected ValidationError for empty name, got %v", err)
	}
	if _, err := registry.Create(context.Background(), UnitDraft{Name: "Kilogram", Abbreviation: ""}); !IsValidation(err) {
		t.Errorf("expected ValidationError for empty abbreviation, got %v", err)
	}
}

func TestUnitDeleteBlockedByIngredient(t *testing.T) {
	db := newTestDB(t)
	registry := NewUnitRegistry(db, testLogger())

	kg, err := registry.Create(context.Background(), UnitDraft{Name: "Kilogram", Abbreviation: "kg", Type: "weight"})
	if err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	liter, err := registry.Create(context.Background(), UnitDraft{Name: "Liter", Abbreviation: "l", Type: "volume"})
	if err != nil {
		t.Fatalf("create unit failed: %v", err)
	}

	// An ingredient holds the unit by abbreviation, not by foreign key
	ingredient := model.Ingredient{Name: "Flour", Unit: "kg", CostPerUnit: 1.2}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("seed ingredient failed: %v", err)
	}

	err = registry.Delete(context.Background(), kg.ID)
	if !IsInUse(err) {
		t.Fatalf("expected InUseError, got %v", err)
	}
	var still model.MeasurementUnit
	if err := db.First(&still, kg.ID).Error; err != nil {
		t.Errorf("blocked unit should still exist: %v", err)
	}

	if err := registry.Delete(context.Background(), liter.ID); err != nil {
		t.Fatalf("delete of unused unit failed: %v", err)
	}
	var gone model.MeasurementUnit
	if err := db.First(&gone, liter.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected unit gone, got %v", err)
	}
}

func TestUnitUpdate(t *testing.T) {
	registry := NewUnitRegistry(newTestDB(t), testLogger())

	unit, err := registry.Create(context.Background(), UnitDraft{Name: "Tablespoon", Abbreviation: "tbsp", Type: "spoon"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	desc := "heaped tablespoon"
	updated, err := registry.Update(context.Background(), unit.ID, UnitPatch{Description: &desc})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Abbreviation != "tbsp" {
		t.Errorf("abbreviation should be untouched, got %q", updated.Abbreviation)
	}

	empty := ""
	if _, err := registry.Update(context.Background(), unit.ID, UnitPatch{Abbreviation: &empty}); !IsValidation(err) {
		t.Errorf("expected ValidationError for empty abbreviation, got %v", err)
	}
}
