package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pressroom/internal/apperrors"
	"pressroom/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	editors  map[string]*models.Editor // keyed by email
	failWith error
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.Editor, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	e, ok := m.editors[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return e, nil
}

func newMemUserRepo(t *testing.T, email, password string) *memUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &memUserRepo{editors: map[string]*models.Editor{
		email: {ID: "editor-1", Email: email, PasswordHash: string(hash)},
	}}
}

func TestLogin_Success(t *testing.T) {
	const secret = "test-secret"
	svc := NewAuthService(newMemUserRepo(t, "editor@example.com", "s3cret"), secret, time.Minute)

	signed, err := svc.Login(context.Background(), "Editor@Example.COM", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	tok, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["user_id"] != "editor-1" || claims["email"] != "editor@example.com" {
		t.Fatalf("claims = %v", claims)
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatal("token has no expiry")
	}
}

func TestLogin_BadPassword(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(t, "editor@example.com", "s3cret"), "k", time.Minute)

	_, err := svc.Login(context.Background(), "editor@example.com", "wrong")
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(t, "editor@example.com", "s3cret"), "k", time.Minute)

	_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	// Unknown email and bad password are indistinguishable to the
	// caller.
	if errors.Is(err, apperrors.ErrNotFound) {
		t.Fatal("login must not reveal whether the email exists")
	}
}

func TestLogin_RepoOutage(t *testing.T) {
	repo := newMemUserRepo(t, "editor@example.com", "s3cret")
	repo.failWith = apperrors.ErrStorage
	svc := NewAuthService(repo, "k", time.Minute)

	_, err := svc.Login(context.Background(), "editor@example.com", "s3cret")
	if !errors.Is(err, apperrors.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
}
