package services

import (
	"context"
	"errors"
	"fmt"

	"shoeshop/internal/models"
	"shoeshop/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by LoginUser for an unknown identifier
// and for a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles registration, login and the forgot-password stub.
//
// Passwords are stored and compared as plaintext unless hashPasswords is set,
// in which case bcrypt is used on both paths.
type AuthService struct {
	userRepo      repositories.UserRepository
	events        EventPublisher
	hashPasswords bool
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, events EventPublisher, hashPasswords bool) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		events:        events,
		hashPasswords: hashPasswords,
	}
}

// RegisterUser stores a new user. A duplicate email fails with
// repositories.ErrDuplicateKey in the chain.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if s.hashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	publish(s.events, EventUserRegistered, map[string]string{
		"_id":      user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
	return nil
}

// LoginUser returns the user whose username or email equals identifier and
// whose password matches.
func (s *AuthService) LoginUser(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}

	if !s.passwordMatches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) passwordMatches(stored, supplied string) bool {
	if s.hashPasswords {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}

// ForgotPassword checks that a user with email exists. Nothing is sent and
// nothing is stored; an unknown email yields repositories.ErrNotFound.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return fmt.Errorf("forgot password lookup failed: %w", err)
	}
	return nil
}
