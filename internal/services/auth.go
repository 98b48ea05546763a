package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pressroom/internal/apperrors"
	"pressroom/internal/logger"
	"pressroom/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity-provider boundary: it turns an
// email/password pair into a bearer token carrying {user_id, email}.
// Everything downstream consumes only those claims.
type AuthService struct {
	users     repository.UserRepo
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users repository.UserRepo, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	log := logger.WithCtx(ctx)

	editor, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("login failed: unknown email")
			return "", apperrors.ErrUnauthorized
		}
		log.Error("login failed (repo)", zap.Error(err))
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(editor.PasswordHash), []byte(password)); err != nil {
		log.Warn("login failed: bad password", zap.String("email", editor.Email))
		return "", apperrors.ErrUnauthorized
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": editor.ID,
		"email":   editor.Email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	log.Info("editor logged in", zap.String("email", editor.Email))
	return signed, nil
}
