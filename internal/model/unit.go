package model

import (
	"time"

	"gorm.io/gorm"
)

// MeasurementUnit represents a unit of quantity used by ingredients
type MeasurementUnit struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Abbreviation string         `json:"abbreviation" gorm:"type:varchar(20);not null;uniqueIndex"`
	Type         string         `json:"type" gorm:"type:varchar(20);not null;comment:'weight, volume, quantity, spoon or custom'"`
	Description  string         `json:"description" gorm:"type:text"`
	BaseUnitID   *uint          `json:"base_unit_id,omitempty"`
	// ConversionFactor is defined for future unit conversion; no costing
	// computation consumes it yet.
	ConversionFactor *float64       `json:"conversion_factor,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
