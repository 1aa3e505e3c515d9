package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"foodgram/internal/auth"
	"foodgram/internal/errors"
	"foodgram/internal/imagestore"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// RecipeInput is the authoring payload for create and update.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string // base64 or data URI
	CookingTime int
	Tags        []uint
	Ingredients []IngredientInput
}

// IngredientInput references an ingredient with its amount.
type IngredientInput struct {
	ID     uint
	Amount int
}

// RecipeQuery selects recipes for a listing.
type RecipeQuery struct {
	AuthorID      uint
	TagSlugs      []string
	OnlyFavorited bool
	OnlyInCart    bool
}

// RecipeWithFlags is a recipe as seen by a particular requester.
type RecipeWithFlags struct {
	model.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeService exposes recipe operations.
type RecipeService interface {
	List(ctx context.Context, viewer *model.User, query RecipeQuery, page repository.Page) ([]RecipeWithFlags, int64, error)
	Get(ctx context.Context, viewer *model.User, id uint) (*RecipeWithFlags, error)
	Create(ctx context.Context, author *model.User, in RecipeInput) (*RecipeWithFlags, error)
	Update(ctx context.Context, requester *model.User, id uint, in RecipeInput) (*RecipeWithFlags, error)
	Delete(ctx context.Context, requester *model.User, id uint) error
}

type recipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	bookmarks   repository.BookmarkRepository
	subs        repository.SubscribeRepository
	images      imagestore.Store
	validator   *RecipeValidator
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TagRepository,
	ingredients repository.IngredientRepository,
	bookmarks repository.BookmarkRepository,
	subs repository.SubscribeRepository,
	images imagestore.Store,
) RecipeService {
	return &recipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		bookmarks:   bookmarks,
		subs:        subs,
		images:      images,
		validator:   NewRecipeValidator(),
	}
}

// List returns a page of recipes newest first. The favorited and cart
// filters only apply to authenticated viewers.
func (s *recipeService) List(ctx context.Context, viewer *model.User, query RecipeQuery, page repository.Page) ([]RecipeWithFlags, int64, error) {
	filter := repository.RecipeFilter{
		AuthorID: query.AuthorID,
		TagSlugs: query.TagSlugs,
	}
	if viewer != nil {
		if query.OnlyFavorited {
			filter.FavoritedBy = viewer.ID
		}
		if query.OnlyInCart {
			filter.InCartOf = viewer.ID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	views, err := s.withFlags(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Get returns a single recipe.
func (s *recipeService) Get(ctx context.Context, viewer *model.User, id uint) (*RecipeWithFlags, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, recipeLookupError(err)
	}

	views, err := s.withFlags(ctx, viewer, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create validates the payload, stores the image and writes the recipe with
// its tags and ingredient amounts in one transaction.
func (s *recipeService) Create(ctx context.Context, author *model.User, in RecipeInput) (*RecipeWithFlags, error) {
	if author == nil {
		return nil, errors.ErrUnauthenticated
	}

	tags, amounts, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        in.Name,
		Image:       imageURL,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}

	err = s.recipes.WithTransaction(ctx, func(ctx context.Context, repo repository.RecipeRepository) error {
		if err := repo.Create(ctx, recipe); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return writeRelations(ctx, repo, recipe, tags, amounts)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, err
	}

	return s.Get(ctx, author, recipe.ID)
}

// Update fully replaces a recipe. Only the author or an admin may do so.
func (s *recipeService) Update(ctx context.Context, requester *model.User, id uint, in RecipeInput) (*RecipeWithFlags, error) {
	recipe, err := s.authorize(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	tags, amounts, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	previousImage := recipe.Image
	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.Image = imageURL
	recipe.CookingTime = in.CookingTime

	err = s.recipes.WithTransaction(ctx, func(ctx context.Context, repo repository.RecipeRepository) error {
		if err := repo.Update(ctx, recipe); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		return writeRelations(ctx, repo, recipe, tags, amounts)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, err
	}
	s.discardImage(ctx, previousImage)

	return s.Get(ctx, requester, recipe.ID)
}

// Delete removes a recipe. Only the author or an admin may do so.
func (s *recipeService) Delete(ctx context.Context, requester *model.User, id uint) error {
	recipe, err := s.authorize(ctx, requester, id)
	if err != nil {
		return err
	}

	err = s.recipes.WithTransaction(ctx, func(ctx context.Context, repo repository.RecipeRepository) error {
		return repo.Delete(ctx, recipe.ID)
	})
	if err != nil {
		return recipeLookupError(err)
	}
	s.discardImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) authorize(ctx context.Context, requester *model.User, id uint) (*model.Recipe, error) {
	if requester == nil {
		return nil, errors.ErrUnauthenticated
	}
	recipe, err := s.recipes.FindShort(ctx, id)
	if err != nil {
		return nil, recipeLookupError(err)
	}
	if !auth.CanModify(requester, recipe.AuthorID) {
		return nil, errors.ErrForbidden
	}
	return recipe, nil
}

// resolve validates the payload and loads the referenced tags and ingredients.
func (s *recipeService) resolve(ctx context.Context, in RecipeInput) ([]model.Tag, []model.IngredientAmount, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, nil, err
	}

	tags, err := s.tags.FindByIDs(ctx, in.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(in.Tags) {
		found := make(map[uint]bool, len(tags))
		for _, tag := range tags {
			found[tag.ID] = true
		}
		verr := &errors.ValidationError{}
		for _, id := range in.Tags {
			if !found[id] {
				verr.Add("tags", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			}
		}
		return nil, nil, verr
	}

	ids := make([]uint, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		ids = append(ids, item.ID)
	}
	ingredients, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load ingredients: %w", err)
	}
	if len(ingredients) != len(ids) {
		return nil, nil, errors.ErrIngredientNotFound
	}

	amounts := make([]model.IngredientAmount, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		amounts = append(amounts, model.IngredientAmount{IngredientID: item.ID, Amount: item.Amount})
	}
	return tags, amounts, nil
}

func (s *recipeService) saveImage(ctx context.Context, payload string) (string, error) {
	data, contentType, err := imagestore.Decode(payload)
	if err != nil {
		return "", errors.NewValidationError("image", "Upload a valid image.")
	}
	url, err := s.images.Save(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}

func (s *recipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		slog.WarnContext(ctx, "failed to remove recipe image", slog.String("url", url), slog.Any("error", err))
	}
}

// withFlags attaches per-viewer flags using one query per flag kind.
func (s *recipeService) withFlags(ctx context.Context, viewer *model.User, recipes []model.Recipe) ([]RecipeWithFlags, error) {
	views := make([]RecipeWithFlags, len(recipes))
	for i := range recipes {
		views[i].Recipe = recipes[i]
	}
	if viewer == nil || len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var favorites, cart, subscribed map[uint]bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		favorites, err = s.bookmarks.MarkedRecipeIDs(gctx, model.BookmarkFavorite, viewer.ID, recipeIDs)
		return err
	})
	g.Go(func() (err error) {
		cart, err = s.bookmarks.MarkedRecipeIDs(gctx, model.BookmarkCart, viewer.ID, recipeIDs)
		return err
	})
	g.Go(func() (err error) {
		subscribed, err = s.subs.SubscribedAuthorIDs(gctx, viewer.ID, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load recipe flags: %w", err)
	}

	for i := range views {
		views[i].IsFavorited = favorites[views[i].ID]
		views[i].IsInShoppingCart = cart[views[i].ID]
		views[i].AuthorSubscribed = subscribed[views[i].AuthorID]
	}
	return views, nil
}

func writeRelations(ctx context.Context, repo repository.RecipeRepository, recipe *model.Recipe, tags []model.Tag, amounts []model.IngredientAmount) error {
	if err := repo.ReplaceTags(ctx, recipe, tags); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}
	if err := repo.ReplaceIngredients(ctx, recipe.ID, amounts); err != nil {
		return fmt.Errorf("replace ingredients: %w", err)
	}
	return nil
}

func recipeLookupError(err error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrRecipeNotFound
	}
	return fmt.Errorf("find recipe: %w", err)
}
