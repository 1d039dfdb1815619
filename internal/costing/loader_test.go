package costing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
)

func TestRetryPolicyDelaySchedule(t *testing.T) {
	policy := DefaultRetryPolicy()

	cases := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 10 * time.Second},
		{10, 10 * time.Second},
	}
	for _, tc := range cases {
		if got := policy.Delay(tc.retryCount); got != tc.want {
			t.Errorf("Delay(%d) = %v, want %v", tc.retryCount, got, tc.want)
		}
	}
}

// Two transport failures then a success: three attempts total, backoff
// computed as base then double, no error surfaced. The policy is
// time-compressed so the test does not sleep for real seconds.
func TestLoaderRetriesThenSucceeds(t *testing.T) {
	db := newTestDB(t)
	policy := RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      2 * time.Millisecond,
		MaxDelay:       10 * time.Millisecond,
		AttemptTimeout: time.Second,
	}
	loader := NewLoader(db, policy, testLogger())

	attempts := 0
	transportErr := errors.New("connection reset")
	realFetch := loader.fetch
	loader.fetch = func(ctx context.Context) (*Snapshot, error) {
		attempts++
		if attempts <= 2 {
			return nil, transportErr
		}
		return realFetch(ctx)
	}

	snapshot, err := loader.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
	if snapshot == nil {
		t.Fatal("expected a snapshot")
	}

	// Delay schedule for the compressed policy mirrors the production one
	if d := policy.Delay(0); d != 2*time.Millisecond {
		t.Errorf("first backoff = %v, want 2ms", d)
	}
	if d := policy.Delay(1); d != 4*time.Millisecond {
		t.Errorf("second backoff = %v, want 4ms", d)
	}
}

func TestLoaderExhaustsRetries(t *testing.T) {
	db := newTestDB(t)
	policy := RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Millisecond,
		MaxDelay:       4 * time.Millisecond,
		AttemptTimeout: time.Second,
	}
	loader := NewLoader(db, policy, testLogger())

	attempts := 0
	transportErr := errors.New("gateway timeout")
	loader.fetch = func(ctx context.Context) (*Snapshot, error) {
		attempts++
		return nil, transportErr
	}

	_, err := loader.LoadAll(context.Background())
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if !errors.Is(err, transportErr) {
		t.Errorf("expected wrapped transport error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestLoaderCancelledDuringBackoff(t *testing.T) {
	db := newTestDB(t)
	policy := RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Hour,
		MaxDelay:       time.Hour,
		AttemptTimeout: time.Second,
	}
	loader := NewLoader(db, policy, testLogger())

	loader.fetch = func(ctx context.Context) (*Snapshot, error) {
		return nil, errors.New("boom")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := loader.LoadAll(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loader did not observe cancellation during backoff")
	}
}

func TestLoaderSnapshotContents(t *testing.T) {
	db := newTestDB(t)
	loader := NewLoader(db, RetryPolicy{MaxAttempts: 1, AttemptTimeout: time.Second}, testLogger())

	dish := model.DishCost{DishName: "Doro Wat", TotalCost: 12}
	if err := db.Create(&dish).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	line := model.DishIngredient{DishCostID: dish.ID, IngredientID: 1, IngredientName: "Chicken", Quantity: 2, UnitCost: 5, TotalCost: 10}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := db.Create(&model.Ingredient{Name: "Chicken", Unit: "kg", CostPerUnit: 5}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := db.Create(&model.MeasurementUnit{Name: "Kilogram", Abbreviation: "kg", Type: "weight"}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := db.Create(&model.DishCostHistory{DishCostID: dish.ID, PreviousCost: 10, NewCost: 12, ChangeDate: time.Now(), Reason: "Cost update"}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	snapshot, err := loader.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snapshot.DishCosts) != 1 || len(snapshot.DishCosts[0].Ingredients) != 1 {
		t.Errorf("dish costs with children not loaded: %+v", snapshot.DishCosts)
	}
	if len(snapshot.Ingredients) != 1 || len(snapshot.Units) != 1 || len(snapshot.History) != 1 {
		t.Errorf("snapshot incomplete: %d ingredients, %d units, %d history",
			len(snapshot.Ingredients), len(snapshot.Units), len(snapshot.History))
	}
}
