package images

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidName = errors.New("invalid image name")
	ErrNotManaged  = errors.New("image is not in the managed directory")
)

// LocalStore keeps member photos in a directory on disk that is served at publicPath.
type LocalStore struct {
	dir        string
	publicPath string
}

func NewLocalStore(dir, publicPath string) *LocalStore {
	publicPath = "/" + strings.Trim(publicPath, "/")
	return &LocalStore{
		dir:        filepath.Clean(dir),
		publicPath: publicPath,
	}
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) PublicPath() string {
	return s.publicPath
}

// Save writes data under name, replacing any existing file. The write goes to a temporary file
// first and is renamed into place, so readers see either the old or the new image.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	tmp := filepath.Join(s.dir, ".upload-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace image: %w", err)
	}

	return path.Join(s.publicPath, name), nil
}

// Delete removes a managed image. A file that is already gone is not an error.
func (s *LocalStore) Delete(ctx context.Context, publicPath string) error {
	if !s.Owns(publicPath) {
		return ErrNotManaged
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := strings.TrimPrefix(publicPath, s.publicPath+"/")
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Exists reports whether publicPath names a regular file in the store. Paths outside the
// store never exist.
func (s *LocalStore) Exists(ctx context.Context, publicPath string) (bool, error) {
	if !s.Owns(publicPath) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	name := strings.TrimPrefix(publicPath, s.publicPath+"/")
	info, err := os.Stat(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat image: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStore) Owns(publicPath string) bool {
	name, ok := strings.CutPrefix(publicPath, s.publicPath+"/")
	return ok && validName(name)
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
