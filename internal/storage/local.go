package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// LocalStore writes images under a directory served by the router.
type LocalStore struct {
	root      string
	publicURL string
}

func NewLocalStore(root, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{root: root, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// Root is the directory images are written to.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(_ context.Context, dir string, data []byte) (string, error) {
	_, ext, err := Inspect(data)
	if err != nil {
		return "", err
	}
	rel := objectName(dir, ext)
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	log.Info().Str("path", rel).Int("bytes", len(data)).Msg("image stored")
	return rel, nil
}

func (s *LocalStore) Delete(_ context.Context, relPath string) error {
	rel, err := cleanRelPath(relPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return s.publicURL + "/" + strings.TrimPrefix(relPath, "/")
}
