package costing

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/abela7/geez-restaurant-sub000/internal/model"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database named after the
// test so parallel packages cannot collide, and migrates the costing
// schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Ingredient{},
		&model.MeasurementUnit{},
		&model.DishCost{},
		&model.DishIngredient{},
		&model.OverheadCost{},
		&model.DishCostHistory{},
		&model.MenuItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
