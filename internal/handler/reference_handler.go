package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"foodgram/internal/model"
	"foodgram/internal/service"
)

// ReferenceHandler serves tags and ingredients. Both are read-only.
type ReferenceHandler struct {
	tags        service.TagService
	ingredients service.IngredientService
}

// NewReferenceHandler creates a handler for tag and ingredient lookups.
func NewReferenceHandler(tags service.TagService, ingredients service.IngredientService) *ReferenceHandler {
	return &ReferenceHandler{tags: tags, ingredients: ingredients}
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} model.Tag
// @Router /tags/ [get]
func (h *ReferenceHandler) ListTags(c echo.Context) error {
	tags, err := h.tags.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return c.JSON(http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get tag by id
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} model.Tag
// @Failure 404 {object} errors.ErrorResponse
// @Router /tags/{id}/ [get]
func (h *ReferenceHandler) GetTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tag, err := h.tags.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// ListIngredients godoc
// @Summary Search ingredients
// @Description Case-insensitive name prefix search.
// @Tags ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} model.Ingredient
// @Router /ingredients/ [get]
func (h *ReferenceHandler) ListIngredients(c echo.Context) error {
	items, err := h.ingredients.Search(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []model.Ingredient{}
	}
	return c.JSON(http.StatusOK, items)
}

// GetIngredient godoc
// @Summary Get ingredient by id
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} model.Ingredient
// @Failure 404 {object} errors.ErrorResponse
// @Router /ingredients/{id}/ [get]
func (h *ReferenceHandler) GetIngredient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.ingredients.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
