package model

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem is the customer-facing menu record. Its lifecycle is owned
// elsewhere; the costing engine only pushes cost, profit_margin and price
// onto an existing row when a linked dish cost is created or updated.
type MenuItem struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Category     string         `json:"category" gorm:"type:varchar(100)"`
	Cost         float64        `json:"cost" gorm:"default:0"`
	ProfitMargin float64        `json:"profit_margin" gorm:"default:0"`
	Price        float64        `json:"price" gorm:"default:0"`
	IsAvailable  bool           `json:"is_available" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
