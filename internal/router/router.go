package router

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/errors"
	"foodgram/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authMiddleware echo.MiddlewareFunc,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
	referenceHandler *handler.ReferenceHandler,
) {
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api")
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = NewCustomValidator()
	e.HTTPErrorHandler = errorHandler(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.Media.Storage != "s3" {
		e.Static(cfg.Media.URL, cfg.Media.Root)
	}

	api := e.Group("/api", authMiddleware)

	// Auth
	api.POST("/auth/token/login/", authHandler.Login)
	api.POST("/auth/token/logout/", authHandler.Logout, auth.RequireAuth)

	// Users and subscriptions
	api.GET("/users/", userHandler.List)
	api.POST("/users/", userHandler.Register)
	api.GET("/users/me/", userHandler.Me, auth.RequireAuth)
	api.POST("/users/set_password/", userHandler.SetPassword, auth.RequireAuth)
	api.GET("/users/subscriptions/", userHandler.Subscriptions, auth.RequireAuth)
	api.GET("/users/:id/", userHandler.Get)
	api.POST("/users/:id/subscribe/", userHandler.Subscribe, auth.RequireAuth)
	api.DELETE("/users/:id/subscribe/", userHandler.Unsubscribe, auth.RequireAuth)

	// Reference data
	api.GET("/tags/", referenceHandler.ListTags)
	api.GET("/tags/:id/", referenceHandler.GetTag)
	api.GET("/ingredients/", referenceHandler.ListIngredients)
	api.GET("/ingredients/:id/", referenceHandler.GetIngredient)

	// Recipes
	api.GET("/recipes/", recipeHandler.List)
	api.POST("/recipes/", recipeHandler.Create, auth.RequireAuth)
	api.GET("/recipes/download_shopping_cart/", recipeHandler.DownloadShoppingCart, auth.RequireAuth)
	api.GET("/recipes/:id/", recipeHandler.Get)
	api.PATCH("/recipes/:id/", recipeHandler.Update, auth.RequireAuth)
	api.DELETE("/recipes/:id/", recipeHandler.Delete, auth.RequireAuth)
	api.POST("/recipes/:id/favorite/", recipeHandler.AddFavorite, auth.RequireAuth)
	api.DELETE("/recipes/:id/favorite/", recipeHandler.RemoveFavorite, auth.RequireAuth)
	api.POST("/recipes/:id/shopping_cart/", recipeHandler.AddToCart, auth.RequireAuth)
	api.DELETE("/recipes/:id/shopping_cart/", recipeHandler.RemoveFromCart, auth.RequireAuth)
}

// errorHandler renders every error as errors.ErrorResponse. Recovered panics
// and other non-HTTP errors become INTERNAL_ERROR.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !stderrors.As(err, &he) {
			slog.ErrorContext(c.Request().Context(), "unhandled error",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.Any("error", err),
			)
			he = echo.NewHTTPError(http.StatusInternalServerError)
		}

		if _, ok := he.Message.(errors.ErrorResponse); !ok {
			he = echo.NewHTTPError(he.Code, errorBody(he))
		}
		e.DefaultHTTPErrorHandler(he, c)
	}
}

func errorBody(he *echo.HTTPError) errors.ErrorResponse {
	if he.Code >= http.StatusInternalServerError {
		return errors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}
	msg, ok := he.Message.(string)
	if !ok || msg == "" {
		msg = http.StatusText(he.Code)
	}
	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
	return errors.ErrorResponse{Error: strings.ToLower(msg), Code: code}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator reports field errors by their JSON names.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}

	verr := &errors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
