package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrRecipeNotFound is returned when a recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrTagNotFound is returned when a tag does not exist.
	ErrTagNotFound = errors.New("tag not found")
	// ErrIngredientNotFound is returned when an ingredient does not exist.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrAlreadyAdded is returned when a recipe is already in the favorites or cart.
	ErrAlreadyAdded = errors.New("recipe already added")
	// ErrAlreadyRemoved is returned when a recipe is not in the favorites or cart.
	ErrAlreadyRemoved = errors.New("recipe already removed")
	// ErrAlreadySubscribed is returned on a duplicate subscription.
	ErrAlreadySubscribed = errors.New("already subscribed to this author")
	// ErrSelfSubscribe is returned when a user targets themselves.
	ErrSelfSubscribe = errors.New("cannot subscribe to yourself")
	// ErrNotSubscribed is returned when removing a subscription that does not exist.
	ErrNotSubscribed = errors.New("not subscribed to this author")
	// ErrForbidden is returned when the requester may not modify a resource.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrUnauthenticated is returned when credentials were not provided.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	// ErrInvalidPassword is returned when the current password does not match.
	ErrInvalidPassword = errors.New("current password is incorrect")
)

// ValidationError carries field-keyed messages.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a validation error with a single message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string][]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// IsInternal reports whether the error maps to a 500.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Fields = verr.Fields
		return httpErr
	}

	switch {
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTagNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, ErrIngredientNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "INGREDIENT_NOT_FOUND")
	case errors.Is(err, ErrAlreadyAdded):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_ADDED")
	case errors.Is(err, ErrAlreadyRemoved):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_REMOVED")
	case errors.Is(err, ErrAlreadySubscribed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_SUBSCRIBED")
	case errors.Is(err, ErrSelfSubscribe):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_SUBSCRIBE")
	case errors.Is(err, ErrNotSubscribed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_SUBSCRIBED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_AUTHENTICATED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
