package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// BookmarkService toggles recipes in a user's favorites or shopping cart.
type BookmarkService interface {
	Add(ctx context.Context, kind model.BookmarkKind, user *model.User, recipeID uint) (*model.Recipe, error)
	Remove(ctx context.Context, kind model.BookmarkKind, user *model.User, recipeID uint) error
}

type bookmarkService struct {
	bookmarks repository.BookmarkRepository
	recipes   repository.RecipeRepository
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(bookmarks repository.BookmarkRepository, recipes repository.RecipeRepository) BookmarkService {
	return &bookmarkService{bookmarks: bookmarks, recipes: recipes}
}

// Add puts the recipe into the set and returns it. A pair that already exists,
// including one inserted concurrently, yields ErrAlreadyAdded.
func (s *bookmarkService) Add(ctx context.Context, kind model.BookmarkKind, user *model.User, recipeID uint) (*model.Recipe, error) {
	if user == nil {
		return nil, errors.ErrUnauthenticated
	}
	recipe, err := s.recipes.FindShort(ctx, recipeID)
	if err != nil {
		return nil, recipeLookupError(err)
	}

	exists, err := s.bookmarks.Exists(ctx, kind, user.ID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", kind, err)
	}
	if exists {
		return nil, errors.ErrAlreadyAdded
	}

	if err := s.bookmarks.Add(ctx, kind, user.ID, recipeID); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrAlreadyAdded
		}
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	return recipe, nil
}

// Remove takes the recipe out of the set. Removing an absent pair yields
// ErrAlreadyRemoved.
func (s *bookmarkService) Remove(ctx context.Context, kind model.BookmarkKind, user *model.User, recipeID uint) error {
	if user == nil {
		return errors.ErrUnauthenticated
	}
	if _, err := s.recipes.FindShort(ctx, recipeID); err != nil {
		return recipeLookupError(err)
	}

	removed, err := s.bookmarks.Remove(ctx, kind, user.ID, recipeID)
	if err != nil {
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	if !removed {
		return errors.ErrAlreadyRemoved
	}
	return nil
}

// ShoppingListRenderer turns aggregated items into a downloadable document.
type ShoppingListRenderer interface {
	Render(w io.Writer, items []model.ShoppingItem) error
	ContentType() string
	Filename() string
}

// ShoppingListService aggregates and exports a user's shopping cart.
type ShoppingListService interface {
	Items(ctx context.Context, user *model.User) ([]model.ShoppingItem, error)
	Export(ctx context.Context, user *model.User, w io.Writer) error
	ContentType() string
	Filename() string
}

type shoppingListService struct {
	bookmarks repository.BookmarkRepository
	renderer  ShoppingListRenderer
}

// NewShoppingListService creates a new shopping list service.
func NewShoppingListService(bookmarks repository.BookmarkRepository, renderer ShoppingListRenderer) ShoppingListService {
	return &shoppingListService{bookmarks: bookmarks, renderer: renderer}
}

// Items sums amounts per (name, unit) over every recipe in the cart.
func (s *shoppingListService) Items(ctx context.Context, user *model.User) ([]model.ShoppingItem, error) {
	if user == nil {
		return nil, errors.ErrUnauthenticated
	}
	items, err := s.bookmarks.ShoppingList(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return items, nil
}

// Export renders the aggregated list to w.
func (s *shoppingListService) Export(ctx context.Context, user *model.User, w io.Writer) error {
	items, err := s.Items(ctx, user)
	if err != nil {
		return err
	}
	return s.renderer.Render(w, items)
}

func (s *shoppingListService) ContentType() string {
	return s.renderer.ContentType()
}

func (s *shoppingListService) Filename() string {
	return s.renderer.Filename()
}
