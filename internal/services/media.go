package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"pressroom/internal/apperrors"
	"pressroom/internal/logger"
	"pressroom/internal/models"
	"pressroom/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaService handles featured-image uploads: admin-only writes into
// the provisioned bucket, namespaced paths, public URL derivation. The
// resulting URL is stored as a plain article field with no foreign-key
// link back to the object.
type MediaService struct {
	store  *storage.LocalStore
	authz  *AuthzGateway
	bucket string
}

type UploadedObject struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func NewMediaService(store *storage.LocalStore, authz *AuthzGateway, bucket string) *MediaService {
	return &MediaService{store: store, authz: authz, bucket: bucket}
}

// Upload stores one object and returns its path and public URL. The
// path is namespaced with a uniqueness token, so an accidental
// collision requires a deliberately repeated path.
func (s *MediaService) Upload(ctx context.Context, ident *models.Identity, filename, mimeType string, size int64, r io.Reader) (*UploadedObject, error) {
	log := logger.WithCtx(ctx)

	if err := s.authz.AuthorizeWrite(ctx, ident); err != nil {
		log.Warn("media upload denied", zap.Error(err))
		return nil, err
	}

	cfg, err := s.store.BucketConfig(s.bucket)
	if err != nil {
		log.Error("bucket config unavailable", zap.Error(err))
		return nil, err
	}

	if cfg.MaxSizeBytes > 0 && size > cfg.MaxSizeBytes {
		log.Warn("media upload rejected: too large", zap.Int64("size", size))
		return nil, fmt.Errorf("%w: object exceeds %d bytes", apperrors.ErrValidation, cfg.MaxSizeBytes)
	}
	if !mimeAllowed(mimeType, cfg.AllowedMimePrefixes) {
		log.Warn("media upload rejected: mime type", zap.String("mime", mimeType))
		return nil, fmt.Errorf("%w: mime type %q not allowed", apperrors.ErrValidation, mimeType)
	}

	objectPath := "articles/" + uuid.NewString() + "_" + sanitizeFilename(filename)
	if err := s.store.Upload(s.bucket, objectPath, r); err != nil {
		log.Error("media upload failed (store)", zap.String("path", objectPath), zap.Error(err))
		return nil, err
	}

	url := s.store.PublicURL(s.bucket, objectPath)
	log.Info("media uploaded",
		zap.String("path", objectPath),
		zap.String("mime", mimeType),
		zap.Int64("size", size),
	)
	return &UploadedObject{Path: objectPath, URL: url}, nil
}

// List enumerates bucket objects for the admin console.
func (s *MediaService) List(ctx context.Context, ident *models.Identity) ([]string, error) {
	if err := s.authz.AuthorizeWrite(ctx, ident); err != nil {
		logger.WithCtx(ctx).Warn("media listing denied", zap.Error(err))
		return nil, err
	}
	return s.store.List(s.bucket)
}

// Open serves a public object; used by the unauthenticated /media
// route, so it refuses when the bucket is private.
func (s *MediaService) Open(bucket, objectPath string) (io.ReadCloser, error) {
	cfg, err := s.store.BucketConfig(bucket)
	if err != nil {
		return nil, err
	}
	if !cfg.Public {
		return nil, apperrors.ErrNotFound
	}
	return s.store.Open(bucket, objectPath)
}

func mimeAllowed(mime string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(mime, p) {
			return true
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
