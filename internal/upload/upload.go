// Package upload implements the file-upload policy: extension allow-list,
// size ceiling, and a sanitized on-disk name. File contents are never
// inspected.
package upload

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/xylcg/finance4/internal/errors"
	"github.com/xylcg/finance4/internal/config"
)

// Policy validates and stores uploaded files.
type Policy struct {
	dir      string
	maxBytes int64
	allowed  map[string]bool
}

// NewPolicy builds a Policy from the application configuration.
func NewPolicy(cfg *config.Config) *Policy {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Policy{
		dir:      cfg.UploadDir,
		maxBytes: cfg.MaxUploadBytes,
		allowed:  allowed,
	}
}

// Allowed reports whether the filename carries an allowed extension.
func (p *Policy) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	return p.allowed[ext]
}

// SecureName strips any path components and replaces characters outside
// [a-zA-Z0-9._-] so the result is safe to join onto the upload directory.
func SecureName(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Save validates the extension and size, then writes the stream under the
// upload directory. It returns the stored filename.
func (p *Policy) Save(filename string, size int64, src io.Reader) (string, error) {
	if !p.Allowed(filename) {
		return "", apperrors.ErrInvalidFileType
	}
	if p.maxBytes > 0 && size > p.maxBytes {
		return "", apperrors.ErrFileTooLarge
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	name := SecureName(filename)
	dst, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer dst.Close()

	// The declared size is re-checked on the wire.
	limited := src
	if p.maxBytes > 0 {
		limited = io.LimitReader(src, p.maxBytes+1)
	}
	written, err := io.Copy(dst, limited)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if p.maxBytes > 0 && written > p.maxBytes {
		_ = os.Remove(filepath.Join(p.dir, name))
		return "", apperrors.ErrFileTooLarge
	}

	return name, nil
}
