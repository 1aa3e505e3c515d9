package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/errors"
	"foodgram/internal/model"
)

func TestTagService_WithoutRedis(t *testing.T) {
	repo := new(MockTagRepository)
	repo.On("List", mock.Anything).Return([]model.Tag{{ID: 1, Name: "Breakfast"}}, nil)
	repo.On("FindByID", mock.Anything, uint(1)).Return(&model.Tag{ID: 1, Name: "Breakfast"}, nil)
	repo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	service := NewTagService(repo, nil)

	tags, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	tag, err := service.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", tag.Name)

	_, err = service.Get(context.Background(), 2)
	assert.ErrorIs(t, err, errors.ErrTagNotFound)
	repo.AssertExpectations(t)
}

func TestIngredientService_SearchIsMemoized(t *testing.T) {
	repo := new(MockIngredientRepository)
	repo.On("Search", mock.Anything, "fl").Return([]model.Ingredient{{ID: 1, Name: "flour"}}, nil).Once()

	service := NewIngredientService(repo)

	first, err := service.Search(context.Background(), "FL")
	require.NoError(t, err)
	second, err := service.Search(context.Background(), " fl ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "Search", 1)
}

func TestIngredientService_Get(t *testing.T) {
	repo := new(MockIngredientRepository)
	repo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := NewIngredientService(repo).Get(context.Background(), 9)
	assert.ErrorIs(t, err, errors.ErrIngredientNotFound)
}
