package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"foodgram/internal/errors"
)

// respondError maps a service error onto the standard error body.
// Unexpected errors are logged with the request id.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.IsInternal() {
		slog.ErrorContext(c.Request().Context(), "request failed",
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequestBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_BODY",
	})
}

// bindAndValidate decodes the body and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, err)
	}
	return nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
			Error: "not found",
			Code:  "NOT_FOUND",
		})
	}
	return uint(id), nil
}

// queryFlag reports whether a boolean query parameter is set ("1" or "true").
func queryFlag(c echo.Context, name string) bool {
	v := strings.ToLower(c.QueryParam(name))
	return v == "1" || v == "true"
}

// queryInt parses a non-negative integer query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// absoluteURL turns a site-relative media path into an absolute URL.
func absoluteURL(c echo.Context, path string) string {
	if path == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	return c.Scheme() + "://" + c.Request().Host + path
}
