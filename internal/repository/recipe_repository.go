package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/model"
)

// RecipeFilter narrows a recipe listing. Zero values disable a condition.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string // any match
	FavoritedBy uint
	InCartOf    uint
}

// RecipeRepository defines recipe persistence operations.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Recipe, error)
	// FindShort loads the recipe row without relations.
	FindShort(ctx context.Context, id uint) (*model.Recipe, error)
	List(ctx context.Context, filter RecipeFilter, page Page) ([]model.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error
	ReplaceIngredients(ctx context.Context, recipeID uint, amounts []model.IngredientAmount) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RecipeRepository) error) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts the recipe row only; associations are written separately.
func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

// Update saves the recipe's own columns.
func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Model(recipe).Omit(clause.Associations).Updates(map[string]interface{}{
		"name":         recipe.Name,
		"image":        recipe.Image,
		"text":         recipe.Text,
		"cooking_time": recipe.CookingTime,
	}).Error
}

// Delete removes a recipe; join rows go with it through FK cascades.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Recipe{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads a recipe with author, tags and ingredient amounts.
func (r *recipeRepository) FindByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.preloaded(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindShort(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns a page of recipes newest first together with the total count.
func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, page Page) ([]model.Recipe, int64, error) {
	var total int64
	if err := r.filtered(r.db.WithContext(ctx).Model(&model.Recipe{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	if err := r.filtered(r.preloaded(ctx), filter).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(page.Offset).
		Limit(page.limit()).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's recipes newest first. limit <= 0 returns all.
func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]model.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []model.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns recipe counts keyed by author id.
func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ReplaceTags swaps the recipe's tag links for the given ones.
func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error {
	owner := &model.Recipe{ID: recipe.ID}
	assoc := r.db.WithContext(ctx).Model(owner).Association("Tags")
	if len(tags) == 0 {
		err := assoc.Clear()
		if err == nil {
			recipe.Tags = nil
		}
		return err
	}
	if err := assoc.Replace(tags); err != nil {
		return err
	}
	recipe.Tags = tags
	return nil
}

// ReplaceIngredients deletes existing amounts and bulk inserts the new ones.
func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID uint, amounts []model.IngredientAmount) error {
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&model.IngredientAmount{}).Error; err != nil {
		return err
	}
	if len(amounts) == 0 {
		return nil
	}
	for i := range amounts {
		amounts[i].ID = 0
		amounts[i].RecipeID = recipeID
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&amounts).Error
}

// WithTransaction executes a function within a database transaction.
func (r *recipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &recipeRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func (r *recipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("IngredientAmounts", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_amounts.id") }).
		Preload("IngredientAmounts.Ingredient")
}

func (r *recipeRepository) filtered(q *gorm.DB, f RecipeFilter) *gorm.DB {
	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.FavoritedBy != 0 {
		sub := r.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", f.FavoritedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}
	if f.InCartOf != 0 {
		sub := r.db.Model(&model.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", f.InCartOf)
		q = q.Where("recipes.id IN (?)", sub)
	}
	return q
}
