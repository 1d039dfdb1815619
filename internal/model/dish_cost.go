package model

import (
	"time"

	"gorm.io/gorm"
)

// DishCost is the costed version of a menu item. Its numeric columns are
// derived from the owned DishIngredient and OverheadCost collections and
// recomputed on every mutation of either.
type DishCost struct {
	ID                  uint           `json:"id" gorm:"primarykey"`
	DishName            string         `json:"dish_name" gorm:"type:varchar(255);not null"`
	MenuItemID          *uint          `json:"menu_item_id,omitempty" gorm:"index;comment:'Linked menu item receiving the price push'"`
	TotalIngredientCost float64        `json:"total_ingredient_cost" gorm:"not null;default:0"`
	TotalOverheadCost   float64        `json:"total_overhead_cost" gorm:"not null;default:0"`
	TotalCost           float64        `json:"total_cost" gorm:"not null;default:0"`
	ProfitMargin        float64        `json:"profit_margin" gorm:"not null;default:0"`
	SuggestedPrice      float64        `json:"suggested_price" gorm:"not null;default:0"`
	ManualPrice         *float64       `json:"manual_price,omitempty"`
	UseManualPrice      bool           `json:"use_manual_price" gorm:"default:false"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Ingredients   []DishIngredient `json:"ingredients" gorm:"foreignKey:DishCostID"`
	OverheadCosts []OverheadCost   `json:"overhead_costs" gorm:"foreignKey:DishCostID"`
}

// DishIngredient is one ingredient used in one dish at a point-in-time
// cost. Name, unit and unit cost are snapshots taken when the line is
// written; a later rename or price change of the base ingredient must not
// alter historical dish costs.
type DishIngredient struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	DishCostID     uint      `json:"dish_cost_id" gorm:"index;not null"`
	IngredientID   uint      `json:"ingredient_id" gorm:"index;not null"`
	IngredientName string    `json:"ingredient_name" gorm:"type:varchar(255);not null"`
	Quantity       float64   `json:"quantity" gorm:"not null"`
	UnitType       string    `json:"unit_type" gorm:"type:varchar(50)"`
	UnitCost       float64   `json:"unit_cost" gorm:"not null"`
	TotalCost      float64   `json:"total_cost" gorm:"not null;comment:'quantity * unit_cost at write time'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OverheadCost is a non-ingredient cost line attached to a dish (labor,
// utilities, packaging and the like)
type OverheadCost struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	DishCostID  uint      `json:"dish_cost_id" gorm:"index;not null"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Cost        float64   `json:"cost" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
