package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperrors.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrAccountSuspended   = apperrors.Forbidden("ACCOUNT_SUSPENDED", "account is suspended")
	ErrSessionExpired     = apperrors.Unauthorized("SESSION_EXPIRED", "session expired")
	ErrInvalidToken       = apperrors.Unauthorized("INVALID_TOKEN", "invalid token")
)

type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	// Authenticate validates an access token against the user's current
	// token version.
	Authenticate(ctx context.Context, token string) (*models.UserClaims, error)
}

type service struct {
	users     repositories.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(users repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) Service {
	return &service{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("Login failed: user not found for %s", email)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for user ID: %d", user.ID)
		return nil, "", ErrInvalidCredentials
	}
	if user.IsSuspended() {
		return nil, "", ErrAccountSuspended
	}

	token, err := utils.GenerateToken(s.jwtSecret, &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*models.UserClaims, error) {
	claims, err := utils.ParseToken(s.jwtSecret, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		log.Printf("Token version mismatch for user %d. Token: %d, DB: %d",
			claims.UserID, claims.TokenVersion, user.TokenVersion)
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// HashPassword hashes a plain-text password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
