package services

import (
	"context"
	"fmt"

	"pressroom/internal/apperrors"
	"pressroom/internal/models"
)

// AuthzGateway is the single enforcement point for every operation on
// article data. All access paths (list query, single fetch, mutation,
// media, realtime subscription) go through the same rules here, so
// the list filter and the single-record filter can never diverge.
//
// Reads: published rows are visible to everyone; drafts and archived
// rows only to admins. A non-visible single fetch fails with
// ErrNotFound, never ErrForbidden, so the existence of unpublished
// content is not revealed to anonymous callers.
//
// Writes (and media, registry management, realtime): admin only.
type AuthzGateway struct {
	admins AdminRegistry
}

func NewAuthzGateway(admins AdminRegistry) *AuthzGateway {
	return &AuthzGateway{admins: admins}
}

// IsAdmin resolves the caller's privilege. Anonymous callers are never
// admins.
func (g *AuthzGateway) IsAdmin(ctx context.Context, ident *models.Identity) (bool, error) {
	if ident == nil {
		return false, nil
	}
	return g.admins.IsAdmin(ctx, ident.Email)
}

// VisibleStatuses returns the statuses the caller may read, or nil for
// unrestricted access.
func (g *AuthzGateway) VisibleStatuses(ctx context.Context, ident *models.Identity) ([]models.ArticleStatus, error) {
	admin, err := g.IsAdmin(ctx, ident)
	if err != nil {
		return nil, err
	}
	if admin {
		return nil, nil
	}
	return []models.ArticleStatus{models.StatusPublished}, nil
}

// AuthorizeRead decides whether the caller may see one article.
// Denial is reported as ErrNotFound, never ErrForbidden, so a denied
// fetch is indistinguishable from a missing row.
func (g *AuthzGateway) AuthorizeRead(ctx context.Context, ident *models.Identity, a *models.Article) error {
	if a.Status == models.StatusPublished {
		return nil
	}
	admin, err := g.IsAdmin(ctx, ident)
	if err != nil {
		return err
	}
	if !admin {
		return apperrors.ErrNotFound
	}
	return nil
}

// AuthorizeWrite guards every mutation, media operation and realtime
// subscription: no identity is ErrUnauthorized, a non-admin identity
// is ErrForbidden.
func (g *AuthzGateway) AuthorizeWrite(ctx context.Context, ident *models.Identity) error {
	if ident == nil {
		return apperrors.ErrUnauthorized
	}
	admin, err := g.admins.IsAdmin(ctx, ident.Email)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: %s is not an admin", apperrors.ErrForbidden, ident.Email)
	}
	return nil
}
