package model

import (
	"strings"

	"gorm.io/gorm"
)

// Ingredient is static reference data; (name, measurement unit) is unique.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	// NameLower backs prefix search; database LOWER() only folds ASCII on some dialects.
	NameLower string `json:"-" gorm:"size:200;index"`
}

// BeforeSave keeps NameLower in step with Name.
func (i *Ingredient) BeforeSave(*gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}
