package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"foodgram/internal/auth"
	"foodgram/internal/model"
	"foodgram/internal/service"
)

// RecipeHandler handles recipe, bookmark and shopping list endpoints.
type RecipeHandler struct {
	recipes   service.RecipeService
	bookmarks service.BookmarkService
	shopping  service.ShoppingListService
	paginator Paginator
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(
	recipes service.RecipeService,
	bookmarks service.BookmarkService,
	shopping service.ShoppingListService,
	paginator Paginator,
) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, bookmarks: bookmarks, shopping: shopping, paginator: paginator}
}

// RecipeIngredientRequest references an ingredient with its amount.
type RecipeIngredientRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the create and update payload. Field rules are checked
// by the service so every violation is reported under its field name.
type RecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients"`
	Tags        []uint                    `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

func (r RecipeRequest) input() service.RecipeInput {
	ingredients := make([]service.IngredientInput, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ingredients = append(ingredients, service.IngredientInput{ID: i.ID, Amount: i.Amount})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Tags:        r.Tags,
		Ingredients: ingredients,
	}
}

// List godoc
// @Summary List recipes
// @Description Newest first. is_favorited and is_in_shopping_cart only apply to authenticated users.
// @Tags recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param is_favorited query int false "Only favorites (1)"
// @Param is_in_shopping_cart query int false "Only shopping cart (1)"
// @Success 200 {object} PageResponse{results=[]RecipeResponse}
// @Router /recipes/ [get]
func (h *RecipeHandler) List(c echo.Context) error {
	page := h.paginator.parse(c)
	query := service.RecipeQuery{
		AuthorID:      uint(queryInt(c, "author", 0)),
		TagSlugs:      c.QueryParams()["tags"],
		OnlyFavorited: queryFlag(c, "is_favorited"),
		OnlyInCart:    queryFlag(c, "is_in_shopping_cart"),
	}

	recipes, total, err := h.recipes.List(c.Request().Context(), auth.CurrentUser(c), query, page.repo())
	if err != nil {
		return respondError(c, err)
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		results = append(results, newRecipeResponse(c, r))
	}
	return c.JSON(http.StatusOK, page.response(c, total, results))
}

// Get godoc
// @Summary Get recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/ [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	recipe, err := h.recipes.Get(c.Request().Context(), auth.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newRecipeResponse(c, *recipe))
}

// Create godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecipeRequest true "Recipe"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/ [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	recipe, err := h.recipes.Create(c.Request().Context(), auth.CurrentUser(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newRecipeResponse(c, *recipe))
}

// Update godoc
// @Summary Replace a recipe
// @Description Only the author or an admin may update. Tags and ingredients are replaced.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipeRequest true "Recipe"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/ [patch]
func (h *RecipeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	recipe, err := h.recipes.Update(c.Request().Context(), auth.CurrentUser(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newRecipeResponse(c, *recipe))
}

// Delete godoc
// @Summary Delete a recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/ [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.recipes.Delete(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} RecipeShortResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/favorite/ [post]
func (h *RecipeHandler) AddFavorite(c echo.Context) error {
	return h.addBookmark(c, model.BookmarkFavorite)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/favorite/ [delete]
func (h *RecipeHandler) RemoveFavorite(c echo.Context) error {
	return h.removeBookmark(c, model.BookmarkFavorite)
}

// AddToCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} RecipeShortResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/shopping_cart/ [post]
func (h *RecipeHandler) AddToCart(c echo.Context) error {
	return h.addBookmark(c, model.BookmarkCart)
}

// RemoveFromCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/shopping_cart/ [delete]
func (h *RecipeHandler) RemoveFromCart(c echo.Context) error {
	return h.removeBookmark(c, model.BookmarkCart)
}

func (h *RecipeHandler) addBookmark(c echo.Context, kind model.BookmarkKind) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	recipe, err := h.bookmarks.Add(c.Request().Context(), kind, auth.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newRecipeShortResponse(c, *recipe))
}

func (h *RecipeHandler) removeBookmark(c echo.Context, kind model.BookmarkKind) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.bookmarks.Remove(c.Request().Context(), kind, auth.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadShoppingCart godoc
// @Summary Download the aggregated shopping list
// @Description Sums amounts per (ingredient, unit) over every recipe in the cart.
// @Tags recipes
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipes/download_shopping_cart/ [get]
func (h *RecipeHandler) DownloadShoppingCart(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.shopping.Export(c.Request().Context(), auth.CurrentUser(c), &buf); err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", h.shopping.Filename()))
	return c.Blob(http.StatusOK, h.shopping.ContentType(), buf.Bytes())
}
