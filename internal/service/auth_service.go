// Package service implements the application operations on top of storage,
// the ledger and auth. Services validate input, enforce permissions, classify
// errors via apperr and publish change notifications; transport concerns stay
// in the server package.
package service

import (
	"context"
	"errors"
	"log/slog"

	"tripsplit/internal/apperr"
	"tripsplit/internal/auth"
	"tripsplit/internal/models"
)

// AuthService handles registration, login and session introspection.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new account and returns the user with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	if email == "" {
		return nil, "", apperr.E(apperr.Validation, "email required")
	}
	if displayName == "" {
		return nil, "", apperr.E(apperr.Validation, "display name required")
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, "", apperr.Wrap(apperr.StateConflict, err, "email already registered")
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, "", apperr.Wrap(apperr.Validation, err, "password too weak")
		}
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.E(apperr.Validation, "email and password required")
	}

	user, err := s.authenticator.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email)
		return nil, "", apperr.Wrap(apperr.Permission, auth.ErrInvalidCredentials, "login failed")
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// CurrentUser returns the full account for an authenticated user ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, apperr.Wrap(apperr.Permission, auth.ErrMissingToken, "authentication required")
	}
	return s.users.GetUserByID(ctx, userID)
}
