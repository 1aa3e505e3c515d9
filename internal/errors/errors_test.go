package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"recipe not found", ErrRecipeNotFound, http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"wrapped user not found", fmt.Errorf("get author: %w", ErrUserNotFound), http.StatusNotFound, "USER_NOT_FOUND"},
		{"already added", ErrAlreadyAdded, http.StatusBadRequest, "ALREADY_ADDED"},
		{"already removed", ErrAlreadyRemoved, http.StatusBadRequest, "ALREADY_REMOVED"},
		{"self subscribe", ErrSelfSubscribe, http.StatusBadRequest, "SELF_SUBSCRIBE"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "NOT_AUTHENTICATED"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_Validation(t *testing.T) {
	verr := NewValidationError("tags", "tags must be unique")
	verr.Add("cooking_time", "must be at least 1")

	httpErr := MapErrorToHTTP(fmt.Errorf("create recipe: %w", verr))

	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", httpErr.Code)
	resp := httpErr.ToErrorResponse()
	assert.Equal(t, []string{"tags must be unique"}, resp.Fields["tags"])
	assert.Equal(t, []string{"must be at least 1"}, resp.Fields["cooking_time"])
}

func TestValidationError_Error(t *testing.T) {
	verr := &ValidationError{}
	assert.False(t, verr.HasErrors())

	verr.Add("name", "required")
	verr.Add("image", "invalid")

	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: image: invalid, name: required", verr.Error())
}
