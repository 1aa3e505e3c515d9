package auth

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"foodgram/internal/errors"
	"foodgram/internal/model"
)

const (
	claimsContextKey = "claims"
	userContextKey   = "user"
)

// UserFinder loads the account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Middleware authenticates "Authorization: Bearer <token>" (or "Token <token>")
// when the header is present. Requests without the header pass through as
// anonymous; a bad, expired or revoked token is rejected with 401.
func Middleware(jwtService *JWTService, store TokenStoreInterface, users UserFinder) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,header:" + echo.HeaderAuthorization + ":Token ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(raw)
			if err != nil {
				return nil, err
			}

			ctx := c.Request().Context()
			revoked, err := store.IsTokenRevoked(ctx, claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, errors.ErrUnauthenticated
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				return nil, err
			}
			c.Set(userContextKey, user)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "INVALID_TOKEN",
			})
		},
	})
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: errors.ErrUnauthenticated.Error(),
				Code:  "NOT_AUTHENTICATED",
			})
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// CurrentClaims returns the claims of the token used for the request.
func CurrentClaims(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}
