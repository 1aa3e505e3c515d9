package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/model"
)

// BookmarkRepository manages the per-user favorite and shopping-cart sets.
type BookmarkRepository interface {
	Exists(ctx context.Context, kind model.BookmarkKind, userID, recipeID uint) (bool, error)
	Add(ctx context.Context, kind model.BookmarkKind, userID, recipeID uint) error
	// Remove deletes the pair and reports whether a row existed.
	Remove(ctx context.Context, kind model.BookmarkKind, userID, recipeID uint) (bool, error)
	// MarkedRecipeIDs returns which of recipeIDs the user has in the set.
	MarkedRecipeIDs(ctx context.Context, kind model.BookmarkKind, userID uint, recipeIDs []uint) (map[uint]bool, error)
	// ShoppingList sums ingredient amounts across the user's cart.
	ShoppingList(ctx context.Context, userID uint) ([]model.ShoppingItem, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository builds a GORM-backed repository.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Exists(ctx context.Context, kind model.BookmarkKind, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(bookmarkModel(kind)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookmarkRepository) Add(ctx context.Context, kind model.BookmarkKind, userID, recipeID uint) error {
	var row interface{}
	switch kind {
	case model.BookmarkCart:
		row = &model.ShoppingCart{UserID: userID, RecipeID: recipeID}
	default:
		row = &model.Favorite{UserID: userID, RecipeID: recipeID}
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func bookmarkModel(kind model.BookmarkKind) interface{} {
	if kind == model.BookmarkCart {
		return &model.ShoppingCart{}
	}
	return &model.Favorite{}
}

func (r *bookmarkRepository) Remove(ctx context.Context, kind model.BookmarkKind, userID, recipeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(bookmarkModel(kind))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) MarkedRecipeIDs(ctx context.Context, kind model.BookmarkKind, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	marked := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).Model(bookmarkModel(kind)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}

func (r *bookmarkRepository) ShoppingList(ctx context.Context, userID uint) ([]model.ShoppingItem, error) {
	var items []model.ShoppingItem
	if err := r.db.WithContext(ctx).
		Table("ingredient_amounts AS ia").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ia.amount) AS total").
		Joins("JOIN ingredients i ON i.id = ia.ingredient_id").
		Joins("JOIN shopping_carts sc ON sc.recipe_id = ia.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
