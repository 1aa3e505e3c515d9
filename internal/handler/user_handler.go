package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"foodgram/internal/auth"
	"foodgram/internal/service"
)

// UserHandler bundles user and subscription endpoints.
type UserHandler struct {
	svc       service.UserService
	subs      service.SubscriptionService
	paginator Paginator
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, subs service.SubscriptionService, paginator Paginator) *UserHandler {
	return &UserHandler{svc: svc, subs: subs, paginator: paginator}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RegisterResponse is returned after sign-up.
type RegisterResponse struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SetPasswordRequest changes the current user's password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/ [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PageResponse{results=[]UserResponse}
// @Router /users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	page := h.paginator.parse(c)
	profiles, total, err := h.svc.ListProfiles(c.Request().Context(), auth.CurrentUser(c), page.repo())
	if err != nil {
		return respondError(c, err)
	}

	results := make([]UserResponse, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, newUserResponse(p.User, p.IsSubscribed))
	}
	return c.JSON(http.StatusOK, page.response(c, total, results))
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/ [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	profile, err := h.svc.Profile(c.Request().Context(), auth.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newUserResponse(profile.User, profile.IsSubscribed))
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, newUserResponse(*auth.CurrentUser(c), false))
}

// SetPassword godoc
// @Summary Change password
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param request body SetPasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/set_password/ [post]
func (h *UserHandler) SetPassword(c echo.Context) error {
	var req SetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.SetPassword(c.Request().Context(), auth.CurrentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Subscribe godoc
// @Summary Follow an author
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Max recipes per author"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/subscribe/ [post]
func (h *UserHandler) Subscribe(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	view, err := h.subs.Subscribe(c.Request().Context(), auth.CurrentUser(c), id, queryInt(c, "recipes_limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newSubscriptionResponse(c, *view))
}

// Unsubscribe godoc
// @Summary Unfollow an author
// @Tags users
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/subscribe/ [delete]
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.subs.Unsubscribe(c.Request().Context(), auth.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Subscriptions godoc
// @Summary Authors the current user follows
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Max recipes per author"
// @Success 200 {object} PageResponse{results=[]SubscriptionResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/subscriptions/ [get]
func (h *UserHandler) Subscriptions(c echo.Context) error {
	page := h.paginator.parse(c)
	views, total, err := h.subs.List(c.Request().Context(), auth.CurrentUser(c), page.repo(), queryInt(c, "recipes_limit", 0))
	if err != nil {
		return respondError(c, err)
	}

	results := make([]SubscriptionResponse, 0, len(views))
	for _, v := range views {
		results = append(results, newSubscriptionResponse(c, v))
	}
	return c.JSON(http.StatusOK, page.response(c, total, results))
}
