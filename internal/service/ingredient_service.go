package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"gorm.io/gorm"

	"foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

const ingredientCacheSize = 512

// IngredientService serves ingredient reference data.
type IngredientService interface {
	// Search filters by case-insensitive name prefix.
	Search(ctx context.Context, prefix string) ([]model.Ingredient, error)
	Get(ctx context.Context, id uint) (*model.Ingredient, error)
}

type ingredientService struct {
	repo  repository.IngredientRepository
	cache *lru.Cache
}

// NewIngredientService builds an IngredientService with an in-process
// cache of search results keyed by lowercased prefix.
func NewIngredientService(repo repository.IngredientRepository) IngredientService {
	cache, _ := lru.New(ingredientCacheSize)
	return &ingredientService{repo: repo, cache: cache}
}

func (s *ingredientService) Search(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	key := strings.ToLower(strings.TrimSpace(prefix))
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.Ingredient), nil
	}

	ingredients, err := s.repo.Search(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	s.cache.Add(key, ingredients)
	return ingredients, nil
}

func (s *ingredientService) Get(ctx context.Context, id uint) (*model.Ingredient, error) {
	ingredient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return ingredient, nil
}
