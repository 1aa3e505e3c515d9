package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/errors"
	"foodgram/internal/model"
)

func TestBookmarkService_Add(t *testing.T) {
	user := &model.User{ID: 4}

	tests := []struct {
		name      string
		kind      model.BookmarkKind
		setupMock func(*MockBookmarkRepository, *MockRecipeRepository)
		wantErr   error
	}{
		{
			name: "favorite added",
			kind: model.BookmarkFavorite,
			setupMock: func(b *MockBookmarkRepository, r *MockRecipeRepository) {
				r.On("FindShort", mock.Anything, uint(1)).Return(&model.Recipe{ID: 1, Name: "Soup"}, nil)
				b.On("Exists", mock.Anything, model.BookmarkFavorite, uint(4), uint(1)).Return(false, nil)
				b.On("Add", mock.Anything, model.BookmarkFavorite, uint(4), uint(1)).Return(nil)
			},
		},
		{
			name: "favorite twice",
			kind: model.BookmarkFavorite,
			setupMock: func(b *MockBookmarkRepository, r *MockRecipeRepository) {
				r.On("FindShort", mock.Anything, uint(1)).Return(&model.Recipe{ID: 1}, nil)
				b.On("Exists", mock.Anything, model.BookmarkFavorite, uint(4), uint(1)).Return(true, nil)
			},
			wantErr: errors.ErrAlreadyAdded,
		},
		{
			name: "concurrent duplicate caught by unique index",
			kind: model.BookmarkCart,
			setupMock: func(b *MockBookmarkRepository, r *MockRecipeRepository) {
				r.On("FindShort", mock.Anything, uint(1)).Return(&model.Recipe{ID: 1}, nil)
				b.On("Exists", mock.Anything, model.BookmarkCart, uint(4), uint(1)).Return(false, nil)
				b.On("Add", mock.Anything, model.BookmarkCart, uint(4), uint(1)).Return(gorm.ErrDuplicatedKey)
			},
			wantErr: errors.ErrAlreadyAdded,
		},
		{
			name: "missing recipe",
			kind: model.BookmarkCart,
			setupMock: func(b *MockBookmarkRepository, r *MockRecipeRepository) {
				r.On("FindShort", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrRecipeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookmarks := new(MockBookmarkRepository)
			recipes := new(MockRecipeRepository)
			tt.setupMock(bookmarks, recipes)

			recipe, err := NewBookmarkService(bookmarks, recipes).Add(context.Background(), tt.kind, user, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, recipe)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(1), recipe.ID)
			}
			bookmarks.AssertExpectations(t)
			recipes.AssertExpectations(t)
		})
	}
}

func TestBookmarkService_Remove(t *testing.T) {
	user := &model.User{ID: 4}
	bookmarks := new(MockBookmarkRepository)
	recipes := new(MockRecipeRepository)
	recipes.On("FindShort", mock.Anything, uint(1)).Return(&model.Recipe{ID: 1}, nil)
	bookmarks.On("Remove", mock.Anything, model.BookmarkCart, uint(4), uint(1)).Return(true, nil).Once()
	bookmarks.On("Remove", mock.Anything, model.BookmarkCart, uint(4), uint(1)).Return(false, nil).Once()

	service := NewBookmarkService(bookmarks, recipes)
	require.NoError(t, service.Remove(context.Background(), model.BookmarkCart, user, 1))
	assert.ErrorIs(t, service.Remove(context.Background(), model.BookmarkCart, user, 1), errors.ErrAlreadyRemoved)
	assert.ErrorIs(t, service.Remove(context.Background(), model.BookmarkCart, nil, 1), errors.ErrUnauthenticated)

	bookmarks.AssertExpectations(t)
}

func TestShoppingListService_Export(t *testing.T) {
	user := &model.User{ID: 4}
	items := []model.ShoppingItem{{Name: "flour", MeasurementUnit: "g", Total: 500}}

	bookmarks := new(MockBookmarkRepository)
	bookmarks.On("ShoppingList", mock.Anything, uint(4)).Return(items, nil)
	renderer := new(MockRenderer)
	renderer.On("Render", mock.Anything, items).Return(nil)

	service := NewShoppingListService(bookmarks, renderer)
	var buf bytes.Buffer
	require.NoError(t, service.Export(context.Background(), user, &buf))
	assert.Equal(t, "shopping_list.txt", service.Filename())
	assert.Equal(t, "text/plain", service.ContentType())

	assert.ErrorIs(t, service.Export(context.Background(), nil, &buf), errors.ErrUnauthenticated)

	bookmarks.AssertExpectations(t)
	renderer.AssertExpectations(t)
}
