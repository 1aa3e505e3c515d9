package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/model"
)

// IngredientRepository reads ingredient reference data.
type IngredientRepository interface {
	// Search returns ingredients whose name starts with prefix, ignoring case.
	// An empty prefix returns every ingredient.
	Search(ctx context.Context, prefix string) ([]model.Ingredient, error)
	FindByID(ctx context.Context, id uint) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository builds a GORM-backed repository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Search(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	q := r.db.WithContext(ctx).Order("name")
	if prefix != "" {
		q = q.Where("name_lower LIKE ? ESCAPE '!'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []model.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
