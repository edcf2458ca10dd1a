package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a user and sets its ID.
	//
	// If the username is taken, models.ErrDuplicateUsername is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByUsername retrieves a user together with the password hash.
	//
	// If no user matches, models.ErrUserNotFound is returned.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type authService struct {
	repo   UserRepository
	logger *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(repo UserRepository, logger *zap.Logger) *authService {
	return &authService{
		repo:   repo,
		logger: logger,
	}
}

// Login verifies a username and password pair
//
// Unknown users and wrong passwords both give ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to load user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Register creates a user with a bcrypt hashed password
func (s *authService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int("user_id", user.ID), zap.String("username", username))
	return user, nil
}
