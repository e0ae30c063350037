package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FilesystemStore writes images into a local directory that the router
// serves under publicPath.
type FilesystemStore struct {
	dir        string
	publicPath string
	maxBytes   int64
	logger     *slog.Logger
}

// NewFilesystemStore creates the directory if needed.
func NewFilesystemStore(dir, publicPath string, maxBytes int64, logger *slog.Logger) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FilesystemStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		maxBytes:   maxBytes,
		logger:     logger.With("component", "filesystem_assets"),
	}, nil
}

// Dir returns the directory the store writes into.
func (s *FilesystemStore) Dir() string { return s.dir }

// Save implements Store.
func (s *FilesystemStore) Save(_ context.Context, filename string, body io.Reader) (string, error) {
	up, err := readImage(filename, body, s.maxBytes)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, up.name)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(up.data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close asset: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to move asset into place: %w", err)
	}

	s.logger.Debug("asset stored", "name", up.name, "bytes", len(up.data), "content_type", up.contentType)
	return path.Join(s.publicPath, up.name), nil
}

// Delete implements Store. Only the base name of ref is used, so a crafted
// reference cannot reach outside the directory.
func (s *FilesystemStore) Delete(_ context.Context, ref string) error {
	name := path.Base(strings.TrimPrefix(ref, s.publicPath+"/"))
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid asset reference %q", ref)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove asset: %w", err)
	}
	return nil
}

var _ Store = (*FilesystemStore)(nil)
