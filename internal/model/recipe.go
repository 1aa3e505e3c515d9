package model

import "time"

// Bounds shared by cooking time and ingredient amounts.
const (
	MinScore = 1
	MaxScore = 32000
)

// Recipe is owned and mutated only by its author or an admin.
type Recipe struct {
	ID          uint      `gorm:"primaryKey"`
	AuthorID    uint      `gorm:"not null;index"`
	Name        string    `gorm:"size:200;not null"`
	Image       string    `gorm:"size:500;not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	// Relations
	Author            User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	IngredientAmounts []IngredientAmount `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// IngredientAmount is the quantity of one ingredient used within one recipe.
type IngredientAmount struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Amount       int  `gorm:"not null"`

	// Relations
	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// ShoppingItem is one aggregated line of a user's shopping list.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}
