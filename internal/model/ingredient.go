package model

import (
	"time"

	"gorm.io/gorm"
)

// Ingredient represents a purchasable kitchen input
type Ingredient struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Unit        string         `json:"unit" gorm:"type:varchar(50);not null;comment:'Abbreviation of the measurement unit'"`
	CostPerUnit float64        `json:"cost_per_unit" gorm:"not null;default:0"`
	StockQty    float64        `json:"stock_quantity" gorm:"default:0"`
	Category    string         `json:"category" gorm:"type:varchar(100)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
