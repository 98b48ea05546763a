package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pressroom/internal/apperrors"
	"pressroom/internal/logger"
	"pressroom/internal/models"
	"pressroom/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ArticleService interface {
	Create(ctx context.Context, ident *models.Identity, req models.CreateArticleRequest) (*models.Article, error)
	GetByID(ctx context.Context, ident *models.Identity, id string) (*models.Article, error)
	List(ctx context.Context, ident *models.Identity, f models.ArticleFilter) (*models.ArticlePage, error)
	Update(ctx context.Context, ident *models.Identity, id string, req models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, ident *models.Identity, id string) error
	PreviewHTML(rawHTML string) string
}

type articleService struct {
	repo   repository.ArticleRepo
	authz  *AuthzGateway
	hub    *ChangeHub
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewArticleService(repo repository.ArticleRepo, authz *AuthzGateway, hub *ChangeHub) ArticleService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &articleService{
		repo:   repo,
		authz:  authz,
		hub:    hub,
		policy: p,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// PreviewHTML sanitizes raw markup for the editor preview pane.
// Nothing is persisted; stored content stays verbatim.
func (s *articleService) PreviewHTML(rawHTML string) string {
	clean := s.policy.Sanitize(rawHTML)
	logger.Log.Debug("article preview sanitized",
		zap.Int("raw_len", len(rawHTML)),
		zap.Int("clean_len", len(clean)),
	)
	return clean
}

func (s *articleService) Create(ctx context.Context, ident *models.Identity, req models.CreateArticleRequest) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	if err := s.authz.AuthorizeWrite(ctx, ident); err != nil {
		log.Warn("article create denied", zap.Error(err))
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		log.Warn("article validation failed: empty title")
		return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		log.Warn("article validation failed: empty content")
		return nil, fmt.Errorf("%w: content must not be empty", apperrors.ErrValidation)
	}

	status := models.StatusDraft
	if req.Status != "" {
		status = models.ArticleStatus(req.Status)
		if !status.Valid() {
			log.Warn("article validation failed: unknown status", zap.String("status", req.Status))
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
		}
	}

	now := s.now()
	a := &models.Article{
		ID:               uuid.NewString(),
		Title:            title,
		Content:          req.Content,
		Excerpt:          strPtr(req.Excerpt),
		FeaturedImageURL: strPtr(req.FeaturedImageURL),
		MetaTitle:        strPtr(req.MetaTitle),
		MetaDescription:  strPtr(req.MetaDescription),
		Tags:             normalizeLabels(req.Tags),
		Categories:       normalizeLabels(req.Categories),
		// author_id is always the acting identity, never client input
		AuthorID:  ident.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.ApplyStatus(status, now)

	if err := s.repo.Create(ctx, a); err != nil {
		log.Error("article create failed (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("article created",
		zap.String("id", a.ID),
		zap.String("status", string(a.Status)),
		zap.String("title", a.Title),
	)
	s.notifyChanged("INSERT")
	return a, nil
}

func (s *articleService) GetByID(ctx context.Context, ident *models.Identity, id string) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Debug("article fetch failed (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if err := s.authz.AuthorizeRead(ctx, ident, a); err != nil {
		// Masked as not-found: drafts must not reveal their existence.
		log.Debug("article fetch masked", zap.String("id", id))
		return nil, err
	}

	if a.Status == models.StatusPublished {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			log.Warn("view counter bump failed", zap.String("id", id), zap.Error(err))
		} else {
			a.ViewCount++
		}
	}

	return a, nil
}

func (s *articleService) List(ctx context.Context, ident *models.Identity, f models.ArticleFilter) (*models.ArticlePage, error) {
	log := logger.WithCtx(ctx)

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	visible, err := s.authz.VisibleStatuses(ctx, ident)
	if err != nil {
		log.Error("visibility resolution failed", zap.Error(err))
		return nil, err
	}

	// A status filter outside the caller's visible set yields an empty
	// page rather than an error, same masking as single fetch.
	if f.Status != nil && !statusVisible(*f.Status, visible) {
		return &models.ArticlePage{Items: []*models.Article{}, Total: 0, Page: f.Page, Limit: f.Limit}, nil
	}

	items, total, err := s.repo.List(ctx, f, visible)
	if err != nil {
		log.Error("article list failed (repo)", zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []*models.Article{}
	}

	log.Debug("article list served",
		zap.Int("count", len(items)),
		zap.Int("total", total),
		zap.Int("page", f.Page),
	)
	return &models.ArticlePage{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *articleService) Update(ctx context.Context, ident *models.Identity, id string, req models.UpdateArticleRequest) (*models.Article, error) {
	log := logger.WithCtx(ctx)

	if err := s.authz.AuthorizeWrite(ctx, ident); err != nil {
		log.Warn("article update denied", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("article for update not found (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.Excerpt != nil {
		a.Excerpt = strPtr(*req.Excerpt)
	}
	if req.FeaturedImageURL != nil {
		a.FeaturedImageURL = strPtr(*req.FeaturedImageURL)
	}
	if req.MetaTitle != nil {
		a.MetaTitle = strPtr(*req.MetaTitle)
	}
	if req.MetaDescription != nil {
		a.MetaDescription = strPtr(*req.MetaDescription)
	}
	if req.Tags != nil {
		a.Tags = normalizeLabels(*req.Tags)
	}
	if req.Categories != nil {
		a.Categories = normalizeLabels(*req.Categories)
	}

	if a.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrValidation)
	}
	if strings.TrimSpace(a.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", apperrors.ErrValidation)
	}

	now := s.now()
	if req.Status != nil {
		status := models.ArticleStatus(*req.Status)
		if !status.Valid() {
			log.Warn("article validation failed: unknown status", zap.String("status", *req.Status))
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *req.Status)
		}
		a.ApplyStatus(status, now)
	}
	a.UpdatedAt = now

	// Last write wins: the merged row replaces whatever is stored,
	// concurrent editors learn about each other via the change feed.
	if err := s.repo.Update(ctx, a); err != nil {
		log.Error("article update failed (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("article updated",
		zap.String("id", id),
		zap.String("status", string(a.Status)),
	)
	s.notifyChanged("UPDATE")
	return a, nil
}

func (s *articleService) Delete(ctx context.Context, ident *models.Identity, id string) error {
	log := logger.WithCtx(ctx)

	if err := s.authz.AuthorizeWrite(ctx, ident); err != nil {
		log.Warn("article delete denied", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Warn("article delete failed (repo)", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("article deleted", zap.String("id", id))
	s.notifyChanged("DELETE")
	return nil
}

func (s *articleService) notifyChanged(op string) {
	if s.hub == nil {
		return
	}
	// Subscribers treat any event as "refresh the list"; op is carried
	// for logging only.
	s.hub.Publish(ChangeEvent{Event: "*", Schema: "public", Table: "articles"})
	logger.Log.Debug("article change published", zap.String("op", op))
}

func statusVisible(status models.ArticleStatus, visible []models.ArticleStatus) bool {
	if visible == nil {
		return true
	}
	for _, v := range visible {
		if v == status {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func normalizeLabels(in []string) []string {
	if in == nil {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
