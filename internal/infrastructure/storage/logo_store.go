package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/pkg/utils"
)

var (
	ErrUnsupportedType = errors.New("logo must be a png, jpg, jpeg or gif file")
	ErrTooLarge        = errors.New("logo exceeds the upload size limit")
)

var allowedLogoExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// LogoStore saves company logos under <root>/logos
type LogoStore struct {
	dir     string
	maxSize int64
}

// NewLogoStore creates the logo directory if needed
func NewLogoStore(root string, maxSize int64) (*LogoStore, error) {
	dir := filepath.Join(root, "logos")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logo directory: %w", err)
	}
	return &LogoStore{dir: dir, maxSize: maxSize}, nil
}

// AllowedLogo reports whether the filename has an accepted image extension
func AllowedLogo(filename string) bool {
	return allowedLogoExt[strings.ToLower(filepath.Ext(filename))]
}

// Save writes the upload and returns its path. Names are prefixed with a
// random id so uploads never overwrite each other.
func (s *LogoStore) Save(filename string, r io.Reader) (string, error) {
	if !AllowedLogo(filename) {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString()[:8] + "-" + utils.SafeFilename(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create logo file: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes a stored logo; missing files are ignored
func (s *LogoStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
