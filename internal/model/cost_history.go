package model

import "time"

// DishCostHistory records one cost change of a dish. Rows are append-only;
// nothing in the service mutates or deletes them.
type DishCostHistory struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	DishCostID   uint      `json:"dish_cost_id" gorm:"index;not null"`
	PreviousCost float64   `json:"previous_cost" gorm:"not null"`
	NewCost      float64   `json:"new_cost" gorm:"not null"`
	ChangeDate   time.Time `json:"change_date" gorm:"index;not null"`
	Reason       string    `json:"reason" gorm:"type:varchar(255);not null;default:'Cost update'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	DishCost *DishCost `json:"dish_cost,omitempty" gorm:"foreignKey:DishCostID"`
}
