package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// AuthorView is a followed author with a preview of their recipes.
type AuthorView struct {
	model.User
	IsSubscribed bool
	Recipes      []model.Recipe
	RecipesCount int64
}

// SubscriptionService manages who follows whom.
type SubscriptionService interface {
	Subscribe(ctx context.Context, user *model.User, authorID uint, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, user *model.User, authorID uint) error
	List(ctx context.Context, user *model.User, page repository.Page, recipesLimit int) ([]AuthorView, int64, error)
}

type subscriptionService struct {
	subs    repository.SubscribeRepository
	users   repository.UserRepository
	recipes repository.RecipeRepository
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(subs repository.SubscribeRepository, users repository.UserRepository, recipes repository.RecipeRepository) SubscriptionService {
	return &subscriptionService{subs: subs, users: users, recipes: recipes}
}

// Subscribe makes user follow the author.
func (s *subscriptionService) Subscribe(ctx context.Context, user *model.User, authorID uint, recipesLimit int) (*AuthorView, error) {
	author, err := s.target(ctx, user, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.subs.Exists(ctx, user.ID, author.ID)
	if err != nil {
		return nil, fmt.Errorf("check subscription: %w", err)
	}
	if exists {
		return nil, errors.ErrAlreadySubscribed
	}

	if err := s.subs.Create(ctx, &model.Subscribe{UserID: user.ID, AuthorID: author.ID}); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	views, err := s.views(ctx, []model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unsubscribe removes an existing follow.
func (s *subscriptionService) Unsubscribe(ctx context.Context, user *model.User, authorID uint) error {
	author, err := s.target(ctx, user, authorID)
	if err != nil {
		return err
	}

	deleted, err := s.subs.Delete(ctx, user.ID, author.ID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if !deleted {
		return errors.ErrNotSubscribed
	}
	return nil
}

// List returns a page of followed authors.
func (s *subscriptionService) List(ctx context.Context, user *model.User, page repository.Page, recipesLimit int) ([]AuthorView, int64, error) {
	if user == nil {
		return nil, 0, errors.ErrUnauthenticated
	}

	authors, total, err := s.subs.ListAuthors(ctx, user.ID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	views, err := s.views(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// target checks existence before self-subscription so unknown ids are 404.
func (s *subscriptionService) target(ctx context.Context, user *model.User, authorID uint) (*model.User, error) {
	if user == nil {
		return nil, errors.ErrUnauthenticated
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}
	if author.ID == user.ID {
		return nil, errors.ErrSelfSubscribe
	}
	return author, nil
}

func (s *subscriptionService) views(ctx context.Context, authors []model.User, recipesLimit int) ([]AuthorView, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	views := make([]AuthorView, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list author recipes: %w", err)
		}
		views = append(views, AuthorView{
			User:         a,
			IsSubscribed: true,
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}
	return views, nil
}
