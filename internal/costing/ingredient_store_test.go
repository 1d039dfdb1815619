package costing

import (
	"context"
	"errors"
	"testing"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"gorm.io/gorm"
)

func TestIngredientCreateRequiresUnit(t *testing.T) {
	store := NewIngredientStore(newTestDB(t), testLogger())

	_, err := store.Create(context.Background(), IngredientDraft{Name: "Berbere", Unit: ""})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestIngredientUpdateRejectsEmptyUnit(t *testing.T) {
	db := newTestDB(t)
	store := NewIngredientStore(db, testLogger())

	created, err := store.Create(context.Background(), IngredientDraft{
		Name: "Chicken", Unit: "kg", CostPerUnit: 5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	empty := ""
	_, err = store.Update(context.Background(), created.ID, IngredientPatch{Unit: &empty})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for empty unit, got %v", err)
	}

	// Partial updates leaving the unit alone are allowed
	cost := 6.5
	updated, err := store.Update(context.Background(), created.ID, IngredientPatch{CostPerUnit: &cost})
	if err != nil {
		t.Fatalf("partial update failed: %v", err)
	}
	if updated.Unit != "kg" {
		t.Errorf("expected unit kg to survive, got %q", updated.Unit)
	}

	var reloaded model.Ingredient
	if err := db.First(&reloaded, created.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !floatEq(reloaded.CostPerUnit, 6.5) {
		t.Errorf("expected cost 6.5, got %v", reloaded.CostPerUnit)
	}
}

func TestIngredientListOrderedByName(t *testing.T) {
	store := NewIngredientStore(newTestDB(t), testLogger())

	for _, name := range []string{"Onion", "Butter", "Chicken"} {
		if _, err := store.Create(context.Background(), IngredientDraft{Name: name, Unit: "kg"}); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 ingredients, got %d", len(list))
	}
	want := []string{"Butter", "Chicken", "Onion"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
}

func TestIngredientDeleteInUseProtection(t *testing.T) {
	db := newTestDB(t)
	store := NewIngredientStore(db, testLogger())

	used, err := store.Create(context.Background(), IngredientDraft{Name: "Chicken", Unit: "kg", CostPerUnit: 5})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	unused, err := store.Create(context.Background(), IngredientDraft{Name: "Saffron", Unit: "g", CostPerUnit: 12})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dish := model.DishCost{DishName: "Doro Wat"}
	if err := db.Create(&dish).Error; err != nil {
		t.Fatalf("seed dish failed: %v", err)
	}
	line := model.DishIngredient{
		DishCostID: dish.ID, IngredientID: used.ID, IngredientName: used.Name,
		Quantity: 2, UnitType: "kg", UnitCost: 5, TotalCost: 10,
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed line failed: %v", err)
	}

	// Referenced ingredient cannot be deleted and survives the attempt
	err = store.Delete(context.Background(), used.ID)
	if !IsInUse(err) {
		t.Fatalf("expected InUseError, got %v", err)
	}
	var still model.Ingredient
	if err := db.First(&still, used.ID).Error; err != nil {
		t.Errorf("referenced ingredient should still exist: %v", err)
	}

	// Unreferenced ingredient deletes cleanly
	if err := store.Delete(context.Background(), unused.ID); err != nil {
		t.Fatalf("delete of unused ingredient failed: %v", err)
	}
	var gone model.Ingredient
	if err := db.First(&gone, unused.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected record gone, got %v", err)
	}
}

func TestIngredientNotFound(t *testing.T) {
	store := NewIngredientStore(newTestDB(t), testLogger())

	if _, err := store.GetByID(context.Background(), 9999); !IsNotFound(err) {
		t.Errorf("expected NotFoundError from GetByID, got %v", err)
	}
	name := "x"
	if _, err := store.Update(context.Background(), 9999, IngredientPatch{Name: &name}); !IsNotFound(err) {
		t.Errorf("expected NotFoundError from Update, got %v", err)
	}
	if err := store.Delete(context.Background(), 9999); !IsNotFound(err) {
		t.Errorf("expected NotFoundError from Delete, got %v", err)
	}
}
