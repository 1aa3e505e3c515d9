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
	"foodgram/internal/repository"
)

func TestSubscriptionService_Subscribe(t *testing.T) {
	user := &model.User{ID: 1}
	author := &model.User{ID: 2, Username: "chef"}

	tests := []struct {
		name      string
		authorID  uint
		setupMock func(*MockSubscribeRepository, *MockUserRepository, *MockRecipeRepository)
		wantErr   error
	}{
		{
			name:     "subscribed",
			authorID: 2,
			setupMock: func(s *MockSubscribeRepository, u *MockUserRepository, r *MockRecipeRepository) {
				u.On("FindByID", mock.Anything, uint(2)).Return(author, nil)
				s.On("Exists", mock.Anything, uint(1), uint(2)).Return(false, nil)
				s.On("Create", mock.Anything, &model.Subscribe{UserID: 1, AuthorID: 2}).Return(nil)
				r.On("CountByAuthors", mock.Anything, []uint{2}).Return(map[uint]int64{2: 5}, nil)
				r.On("ListByAuthor", mock.Anything, uint(2), 3).Return([]model.Recipe{{ID: 9}, {ID: 8}, {ID: 7}}, nil)
			},
		},
		{
			name:     "self",
			authorID: 1,
			setupMock: func(s *MockSubscribeRepository, u *MockUserRepository, r *MockRecipeRepository) {
				u.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
			},
			wantErr: errors.ErrSelfSubscribe,
		},
		{
			name:     "duplicate",
			authorID: 2,
			setupMock: func(s *MockSubscribeRepository, u *MockUserRepository, r *MockRecipeRepository) {
				u.On("FindByID", mock.Anything, uint(2)).Return(author, nil)
				s.On("Exists", mock.Anything, uint(1), uint(2)).Return(true, nil)
			},
			wantErr: errors.ErrAlreadySubscribed,
		},
		{
			name:     "duplicate race",
			authorID: 2,
			setupMock: func(s *MockSubscribeRepository, u *MockUserRepository, r *MockRecipeRepository) {
				u.On("FindByID", mock.Anything, uint(2)).Return(author, nil)
				s.On("Exists", mock.Anything, uint(1), uint(2)).Return(false, nil)
				s.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			wantErr: errors.ErrAlreadySubscribed,
		},
		{
			name:     "unknown author",
			authorID: 42,
			setupMock: func(s *MockSubscribeRepository, u *MockUserRepository, r *MockRecipeRepository) {
				u.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := new(MockSubscribeRepository)
			users := new(MockUserRepository)
			recipes := new(MockRecipeRepository)
			tt.setupMock(subs, users, recipes)

			view, err := NewSubscriptionService(subs, users, recipes).Subscribe(context.Background(), user, tt.authorID, 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, view)
			} else {
				require.NoError(t, err)
				assert.True(t, view.IsSubscribed)
				assert.Len(t, view.Recipes, 3)
				assert.EqualValues(t, 5, view.RecipesCount)
			}
			subs.AssertExpectations(t)
			users.AssertExpectations(t)
			recipes.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Unsubscribe(t *testing.T) {
	user := &model.User{ID: 1}
	subs := new(MockSubscribeRepository)
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2}, nil)
	users.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
	subs.On("Delete", mock.Anything, uint(1), uint(2)).Return(true, nil).Once()
	subs.On("Delete", mock.Anything, uint(1), uint(2)).Return(false, nil).Once()

	service := NewSubscriptionService(subs, users, new(MockRecipeRepository))
	require.NoError(t, service.Unsubscribe(context.Background(), user, 2))
	assert.ErrorIs(t, service.Unsubscribe(context.Background(), user, 2), errors.ErrNotSubscribed)
	assert.ErrorIs(t, service.Unsubscribe(context.Background(), user, 1), errors.ErrSelfSubscribe)

	subs.AssertExpectations(t)
}

func TestSubscriptionService_List(t *testing.T) {
	user := &model.User{ID: 1}
	subs := new(MockSubscribeRepository)
	recipes := new(MockRecipeRepository)
	page := repository.Page{Offset: 0, Limit: 6}

	subs.On("ListAuthors", mock.Anything, uint(1), page).Return([]model.User{{ID: 2}, {ID: 3}}, int64(2), nil)
	recipes.On("CountByAuthors", mock.Anything, []uint{2, 3}).Return(map[uint]int64{2: 1}, nil)
	recipes.On("ListByAuthor", mock.Anything, uint(2), 0).Return([]model.Recipe{{ID: 5}}, nil)
	recipes.On("ListByAuthor", mock.Anything, uint(3), 0).Return([]model.Recipe{}, nil)

	views, total, err := NewSubscriptionService(subs, new(MockUserRepository), recipes).List(context.Background(), user, page, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, views, 2)
	assert.EqualValues(t, 1, views[0].RecipesCount)
	assert.EqualValues(t, 0, views[1].RecipesCount)
	assert.Empty(t, views[1].Recipes)

	subs.AssertExpectations(t)
	recipes.AssertExpectations(t)
}
