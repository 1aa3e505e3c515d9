package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodgram/internal/cache"
	"foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

const (
	bcryptCost        = 10
	userCacheTTL      = 5 * time.Minute
	minPasswordLength = 8
	maxNameLength     = 150
	maxEmailLength    = 254
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserProfile is a user as seen by a particular requester.
type UserProfile struct {
	model.User
	IsSubscribed bool
}

// UserService exposes domain operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	Profile(ctx context.Context, viewer *model.User, id uint) (*UserProfile, error)
	ListProfiles(ctx context.Context, viewer *model.User, page repository.Page) ([]UserProfile, int64, error)
	SetPassword(ctx context.Context, user *model.User, current, next string) error
}

type userService struct {
	repo  repository.UserRepository
	subs  repository.SubscribeRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, subs repository.SubscribeRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, subs: subs, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a user with a hashed password.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	verr := &errors.ValidationError{}
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		verr.Add("email", "A user with that email already exists.")
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		verr.Add("username", "A user with that username already exists.")
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.NewValidationError("username", "A user with that username or email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) Profile(ctx context.Context, viewer *model.User, id uint) (*UserProfile, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles(ctx, viewer, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

func (s *userService) ListProfiles(ctx context.Context, viewer *model.User, page repository.Page) ([]UserProfile, int64, error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	profiles, err := s.profiles(ctx, viewer, users)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// SetPassword replaces the password after checking the current one.
func (s *userService) SetPassword(ctx context.Context, user *model.User, current, next string) error {
	if user == nil {
		return errors.ErrUnauthenticated
	}
	if len(next) < minPasswordLength {
		return errors.NewValidationError("new_password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLength))
	}

	stored, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(current)); err != nil {
		return errors.ErrInvalidPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return nil
}

func (s *userService) profiles(ctx context.Context, viewer *model.User, users []model.User) ([]UserProfile, error) {
	profiles := make([]UserProfile, len(users))
	ids := make([]uint, 0, len(users))
	for i := range users {
		profiles[i].User = users[i]
		ids = append(ids, users[i].ID)
	}
	if viewer == nil {
		return profiles, nil
	}

	subscribed, err := s.subs.SubscribedAuthorIDs(ctx, viewer.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	for i := range profiles {
		profiles[i].IsSubscribed = subscribed[profiles[i].ID]
	}
	return profiles, nil
}

func validateRegistration(in RegisterInput) error {
	verr := &errors.ValidationError{}

	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		verr.Add("email", "Enter a valid email address.")
	} else if len(in.Email) > maxEmailLength {
		verr.Add("email", fmt.Sprintf("Ensure this field has no more than %d characters.", maxEmailLength))
	}

	switch {
	case in.Username == "":
		verr.Add("username", "This field is required.")
	case strings.EqualFold(in.Username, "me"):
		verr.Add("username", fmt.Sprintf("Username %q is not allowed.", in.Username))
	case !usernamePattern.MatchString(in.Username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	case len([]rune(in.Username)) > maxNameLength:
		verr.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength))
	}

	for field, value := range map[string]string{"first_name": in.FirstName, "last_name": in.LastName} {
		switch {
		case strings.TrimSpace(value) == "":
			verr.Add(field, "This field is required.")
		case len([]rune(value)) > maxNameLength:
			verr.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength))
		}
	}

	if len(in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLength))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
