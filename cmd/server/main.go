package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "foodgram/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"foodgram/internal/auth"
	"foodgram/internal/cache"
	"foodgram/internal/config"
	"foodgram/internal/db"
	"foodgram/internal/export"
	"foodgram/internal/handler"
	"foodgram/internal/imagestore"
	"foodgram/internal/repository"
	"foodgram/internal/router"
	"foodgram/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Foodgram API
// @version 1.0
// @description Recipe sharing API with favorites, shopping cart, subscriptions and token authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Token" or "Bearer" followed by a space and the auth token.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if cfg.ResetDB {
		slog.Warn("RESET_DB set, dropping all tables")
		db.Reset(gormDB)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		slog.Warn("redis unavailable, caching and token revocation degraded", slog.Any("error", err))
	}

	images, err := imagestore.New(ctx, cfg.Media)
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	ingredientRepo := repository.NewIngredientRepository(gormDB)
	recipeRepo := repository.NewRecipeRepository(gormDB)
	bookmarkRepo := repository.NewBookmarkRepository(gormDB)
	subscribeRepo := repository.NewSubscribeRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, subscribeRepo, cacheClient)
	subscriptionService := service.NewSubscriptionService(subscribeRepo, userRepo, recipeRepo)
	tagService := service.NewTagService(tagRepo, cacheClient)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, bookmarkRepo, subscribeRepo, images)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, recipeRepo)
	shoppingService := service.NewShoppingListService(bookmarkRepo, export.NewPDFRenderer(cfg.PDFFontPath))

	// Initialize handlers
	paginator := handler.NewPaginator(cfg.PageSize)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, subscriptionService, paginator)
	recipeHandler := handler.NewRecipeHandler(recipeService, bookmarkService, shoppingService, paginator)
	referenceHandler := handler.NewReferenceHandler(tagService, ingredientService)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		auth.Middleware(jwtService, tokenStore, userRepo),
		authHandler,
		userHandler,
		recipeHandler,
		referenceHandler,
	)

	slog.Info("swagger documentation available", slog.String("url", swaggerURL(cfg)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.ServerPort
		slog.Info("server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// swaggerURL builds the docs link. SwaggerHost may already include a scheme.
func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
