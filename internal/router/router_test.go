package router

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/errors"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Note     string `json:"note,omitempty" validate:"max=3"`
}

func TestCustomValidator(t *testing.T) {
	v := NewCustomValidator()

	tests := []struct {
		name   string
		input  sample
		fields []string
	}{
		{name: "valid", input: sample{Email: "a@example.com", Password: "12345678"}},
		{name: "missing all", input: sample{}, fields: []string{"email", "password"}},
		{name: "bad email short password", input: sample{Email: "nope", Password: "1"}, fields: []string{"email", "password"}},
		{name: "long note", input: sample{Email: "a@example.com", Password: "12345678", Note: "abcd"}, fields: []string{"note"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			keys := make([]string, 0, len(verr.Fields))
			for k := range verr.Fields {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.fields, keys)
			assert.Equal(t, 400, errors.MapErrorToHTTP(err).StatusCode)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = errorHandler(e)
	e.Use(middleware.Recover())
	e.GET("/boom", func(c echo.Context) error {
		panic("kaboom")
	})
	e.GET("/fail", func(c echo.Context) error {
		return stderrors.New("db down")
	})
	e.GET("/typed", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "bad", Code: "BAD"})
	})

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "recovered panic", path: "/boom", status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
		{name: "plain error", path: "/fail", status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
		{name: "unknown route", path: "/missing", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "error response kept", path: "/typed", status: http.StatusBadRequest, code: "BAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			var body errors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}
