package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"pressroom/internal/apperrors"
	"pressroom/internal/storage"
)

func newTestMediaService(t *testing.T) *MediaService {
	t.Helper()
	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	err := store.EnsureBucket("article-images", storage.BucketConfig{
		Public:              true,
		AllowedMimePrefixes: []string{"image/"},
		MaxSizeBytes:        10 << 20,
	})
	if err != nil {
		t.Fatalf("provision bucket: %v", err)
	}
	return NewMediaService(store, newTestGateway(adminIdent.Email), "article-images")
}

func upload(svc *MediaService, filename, mime string, size int64) (*UploadedObject, error) {
	return svc.Upload(context.Background(), adminIdent, filename, mime, size, strings.NewReader("payload"))
}

func TestMediaUpload_PathAndURL(t *testing.T) {
	svc := newTestMediaService(t)

	obj, err := upload(svc, "cover photo.png", "image/png", 7)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(obj.Path, "articles/") || !strings.HasSuffix(obj.Path, "_cover-photo.png") {
		t.Fatalf("path = %q", obj.Path)
	}
	if obj.URL != "http://localhost:8080/media/article-images/"+obj.Path {
		t.Fatalf("url = %q", obj.URL)
	}

	// Two uploads of the same filename never collide.
	obj2, err := upload(svc, "cover photo.png", "image/png", 7)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if obj2.Path == obj.Path {
		t.Fatal("upload paths must be unique per object")
	}
}

func TestMediaUpload_RejectsDisallowedMime(t *testing.T) {
	svc := newTestMediaService(t)

	_, err := upload(svc, "notes.txt", "text/plain", 7)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestMediaUpload_RejectsOversize(t *testing.T) {
	svc := newTestMediaService(t)

	_, err := upload(svc, "huge.png", "image/png", (10<<20)+1)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestMediaUpload_AdminOnly(t *testing.T) {
	svc := newTestMediaService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, nil, "x.png", "image/png", 1, strings.NewReader("x"))
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("anonymous: err = %v", err)
	}
	_, err = svc.Upload(ctx, readerIdent, "x.png", "image/png", 1, strings.NewReader("x"))
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("non-admin: err = %v", err)
	}
}

func TestMediaList_ReflectsUploads(t *testing.T) {
	svc := newTestMediaService(t)
	ctx := context.Background()

	obj, err := upload(svc, "a.png", "image/png", 7)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	paths, err := svc.List(ctx, adminIdent)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 1 || paths[0] != obj.Path {
		t.Fatalf("list = %v, want [%s]", paths, obj.Path)
	}

	if _, err := svc.List(ctx, readerIdent); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("non-admin list: err = %v", err)
	}
}

func TestMediaOpen_PublicReadback(t *testing.T) {
	svc := newTestMediaService(t)

	obj, err := upload(svc, "a.png", "image/png", 7)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	rc, err := svc.Open("article-images", obj.Path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "payload" {
		t.Fatalf("body = %q", body)
	}

	if _, err := svc.Open("article-images", "articles/missing.png"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("missing object: err = %v", err)
	}
}

func TestMediaOpen_PrivateBucketHidden(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	if err := store.EnsureBucket("internal", storage.BucketConfig{Public: false}); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := store.Upload("internal", "secret.bin", strings.NewReader("x")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewMediaService(store, newTestGateway(), "internal")

	if _, err := svc.Open("internal", "secret.bin"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("private bucket read: err = %v, want ErrNotFound", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":            "photo.png",
		"../../etc/passwd":     "passwd",
		"dir\\evil.png":        "evil.png",
		"weird name (1)!.jpeg": "weird-name--1--.jpeg",
		"":                     "upload",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
