package handler

import (
	"github.com/labstack/echo/v4"

	"foodgram/internal/model"
	"foodgram/internal/service"
)

// UserResponse is the public user shape.
type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeShortResponse is the compact recipe shape.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeIngredientResponse is an ingredient with its amount in a recipe.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe read shape.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []model.Tag                `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorite       bool                       `json:"is_favorite"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// SubscriptionResponse is a followed author with recipe previews.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func newUserResponse(u model.User, subscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func newRecipeShortResponse(c echo.Context, r model.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       absoluteURL(c, r.Image),
		CookingTime: r.CookingTime,
	}
}

func newRecipeResponse(c echo.Context, r service.RecipeWithFlags) RecipeResponse {
	tags := r.Tags
	if tags == nil {
		tags = []model.Tag{}
	}
	ingredients := make([]RecipeIngredientResponse, 0, len(r.IngredientAmounts))
	for _, ia := range r.IngredientAmounts {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              ia.IngredientID,
			Name:            ia.Ingredient.Name,
			MeasurementUnit: ia.Ingredient.MeasurementUnit,
			Amount:          ia.Amount,
		})
	}
	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           newUserResponse(r.Author, r.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorite:       r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            absoluteURL(c, r.Image),
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func newSubscriptionResponse(c echo.Context, v service.AuthorView) SubscriptionResponse {
	recipes := make([]RecipeShortResponse, 0, len(v.Recipes))
	for _, r := range v.Recipes {
		recipes = append(recipes, newRecipeShortResponse(c, r))
	}
	return SubscriptionResponse{
		UserResponse: newUserResponse(v.User, v.IsSubscribed),
		Recipes:      recipes,
		RecipesCount: v.RecipesCount,
	}
}
