package services

import (
	"context"
	"strings"

	"pressroom/internal/apperrors"
	"pressroom/internal/logger"
	"pressroom/internal/models"
	"pressroom/internal/repository"

	"go.uber.org/zap"
)

// AdminRegistry is the authoritative mapping of privileged identities.
// Privilege persists until explicitly revoked; there is no expiry and
// no cache, so every authorization decision sees the current table.
type AdminRegistry interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	Grant(ctx context.Context, userID, email string) error
	Revoke(ctx context.Context, email string) error
	List(ctx context.Context) ([]*models.AdminUser, error)
}

type adminRegistry struct {
	repo repository.AdminRepo
}

func NewAdminRegistry(repo repository.AdminRepo) AdminRegistry {
	return &adminRegistry{repo: repo}
}

func (s *adminRegistry) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, email)
	if err != nil {
		logger.WithCtx(ctx).Error("admin lookup failed (repo)", zap.Error(err))
		return false, err
	}
	return ok, nil
}

func (s *adminRegistry) Grant(ctx context.Context, userID, email string) error {
	log := logger.WithCtx(ctx)
	email = normalizeEmail(email)
	if userID == "" || email == "" {
		log.Warn("admin grant rejected: missing user id or email")
		return apperrors.ErrValidation
	}

	// Idempotent: granting an existing admin is a no-op.
	if err := s.repo.Upsert(ctx, userID, email); err != nil {
		log.Error("admin grant failed (repo)", zap.String("email", email), zap.Error(err))
		return err
	}

	log.Info("admin privilege granted", zap.String("email", email))
	return nil
}

func (s *adminRegistry) Revoke(ctx context.Context, email string) error {
	log := logger.WithCtx(ctx)
	email = normalizeEmail(email)

	if err := s.repo.Remove(ctx, email); err != nil {
		log.Error("admin revoke failed (repo)", zap.String("email", email), zap.Error(err))
		return err
	}

	log.Info("admin privilege revoked", zap.String("email", email))
	return nil
}

func (s *adminRegistry) List(ctx context.Context) ([]*models.AdminUser, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("admin list failed (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
