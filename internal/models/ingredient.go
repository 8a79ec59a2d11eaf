package models

import (
	"github.com/google/uuid"
)

// Ingredient identity is the (name, measurement_unit) pair; the same name may
// appear with several units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name            string    `gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name  string    `gorm:"size:64;not null" json:"name"`
	Slug  string    `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Color string    `gorm:"size:7" json:"color"`
}
