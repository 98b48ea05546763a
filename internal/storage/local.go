package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pressroom/internal/apperrors"
)

// BucketConfig is the provisioning contract for a bucket: whether its
// objects are served publicly, which MIME type prefixes uploads may
// carry, and the maximum object size.
type BucketConfig struct {
	Public              bool     `json:"public"`
	AllowedMimePrefixes []string `json:"allowed_mime_prefixes"`
	MaxSizeBytes        int64    `json:"max_size_bytes"`
}

// LocalStore is a disk-backed object store addressed by
// bucket + caller-chosen path. Overwriting an existing path replaces
// the object (documented policy). PublicURL is a pure derivation and
// never checks that the object exists.
type LocalStore struct {
	baseDir string
	baseURL string
}

const bucketConfigFile = ".bucket.json"

func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// EnsureBucket provisions a bucket and persists its config. Idempotent:
// re-provisioning rewrites the same config and touches nothing else.
// Runs once at startup, outside the request path.
func (s *LocalStore) EnsureBucket(name string, cfg BucketConfig) error {
	dir := filepath.Join(s.baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create bucket dir: %v", apperrors.ErrStorage, err)
	}
	raw, _ := json.MarshalIndent(cfg, "", "  ")
	if err := os.WriteFile(filepath.Join(dir, bucketConfigFile), raw, 0o644); err != nil {
		return fmt.Errorf("%w: write bucket config: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// BucketConfig reads the persisted provisioning config.
func (s *LocalStore) BucketConfig(name string) (BucketConfig, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, name, bucketConfigFile))
	if err != nil {
		return BucketConfig{}, fmt.Errorf("%w: bucket %q not provisioned: %v", apperrors.ErrStorage, name, err)
	}
	var cfg BucketConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return BucketConfig{}, fmt.Errorf("%w: bucket config corrupt: %v", apperrors.ErrStorage, err)
	}
	return cfg, nil
}

// Upload writes the object, replacing any previous object at the same
// path. The path is caller-chosen; collisions are the caller's
// namespacing problem.
func (s *LocalStore) Upload(bucket, objectPath string, r io.Reader) error {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}

	full := filepath.Join(s.baseDir, bucket, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// PublicURL derives the public URL of an object. Deterministic, never
// fails, does not check existence.
func (s *LocalStore) PublicURL(bucket, objectPath string) string {
	return s.baseURL + "/media/" + bucket + "/" + strings.TrimLeft(path.Clean(objectPath), "/")
}

// Open returns a reader for a stored object.
func (s *LocalStore) Open(bucket, objectPath string) (io.ReadCloser, error) {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, bucket, filepath.FromSlash(clean)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return f, nil
}

// List enumerates object paths in a bucket, config file excluded.
func (s *LocalStore) List(bucket string) ([]string, error) {
	root := filepath.Join(s.baseDir, bucket)
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == bucketConfigFile {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return out, nil
}

// cleanObjectPath roots and cleans caller-chosen paths so they stay
// inside the bucket: rooted Clean strips every ".." segment, leaving
// only empty and root paths to reject.
func cleanObjectPath(p string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	if clean == "/" {
		return "", fmt.Errorf("%w: invalid object path %q", apperrors.ErrValidation, p)
	}
	return strings.TrimPrefix(clean, "/"), nil
}
