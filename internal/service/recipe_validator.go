package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"foodgram/internal/errors"
	"foodgram/internal/model"
)

const maxRecipeNameLength = 200

// RecipeValidator checks recipe payloads before anything touches the database.
type RecipeValidator struct{}

// NewRecipeValidator creates a new recipe validator.
func NewRecipeValidator() *RecipeValidator {
	return &RecipeValidator{}
}

// Validate returns a *errors.ValidationError keyed by field, or nil.
func (v *RecipeValidator) Validate(in RecipeInput) error {
	verr := &errors.ValidationError{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		verr.Add("name", "This field is required.")
	case utf8.RuneCountInString(name) > maxRecipeNameLength:
		verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxRecipeNameLength))
	}

	if strings.TrimSpace(in.Text) == "" {
		verr.Add("text", "This field is required.")
	}

	if strings.TrimSpace(in.Image) == "" {
		verr.Add("image", "This field is required.")
	}

	if msg := scoreError(in.CookingTime); msg != "" {
		verr.Add("cooking_time", msg)
	}

	v.validateTags(in.Tags, verr)
	v.validateIngredients(in.Ingredients, verr)

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (v *RecipeValidator) validateTags(tags []uint, verr *errors.ValidationError) {
	if len(tags) == 0 {
		verr.Add("tags", "At least one tag is required.")
		return
	}
	seen := make(map[uint]struct{}, len(tags))
	for _, id := range tags {
		if _, dup := seen[id]; dup {
			verr.Add("tags", "Tags must be unique.")
			return
		}
		seen[id] = struct{}{}
	}
}

func (v *RecipeValidator) validateIngredients(ingredients []IngredientInput, verr *errors.ValidationError) {
	if len(ingredients) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
		return
	}

	seen := make(map[uint]struct{}, len(ingredients))
	duplicate := false
	for _, item := range ingredients {
		if _, dup := seen[item.ID]; dup {
			duplicate = true
		}
		seen[item.ID] = struct{}{}
	}
	if duplicate {
		verr.Add("ingredients", "Ingredients must be unique.")
	}

	for _, item := range ingredients {
		if msg := scoreError(item.Amount); msg != "" {
			verr.Add("ingredients", "Amount: "+msg)
			return
		}
	}
}

// scoreError checks the shared [MinScore, MaxScore] bound.
func scoreError(value int) string {
	switch {
	case value < model.MinScore:
		return fmt.Sprintf("Ensure this value is greater than or equal to %d.", model.MinScore)
	case value > model.MaxScore:
		return fmt.Sprintf("Ensure this value is less than or equal to %d.", model.MaxScore)
	}
	return ""
}
