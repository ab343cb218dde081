// Package storage persists uploaded files on disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/go-mairie/internal/config"
	"github.com/google/uuid"
)

// Store persists uploaded files under generated names.
type Store interface {
	// Save stores r under a unique name derived from originalName and
	// returns that name.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	// URL returns where clients can fetch name.
	URL(ctx context.Context, name string) (string, error)
}

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// ImageExtensions are the accepted logo extensions. SVG is excluded: it can
// carry scripts and uploads are served from the API origin.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// AllowedImage reports whether filename has an accepted image extension.
func AllowedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

var now = time.Now

// UniqueName returns "<unix-millis>-<uuid><ext>" keeping the lowercased
// extension of originalName.
func UniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", now().UnixMilli(), uuid.New(), ext)
}

// checkName rejects names that could escape the store root.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "disk", "":
		return NewDiskStore(cfg.Dir, PublicPrefix)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
