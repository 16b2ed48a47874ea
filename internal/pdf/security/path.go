// Package security keeps document reads and writes inside one output directory.
package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that resolve outside the guarded directory.
var ErrOutsideDirectory = errors.New("path is outside the output directory")

// PathValidator confines file access to a configured directory.
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a validator for dir. The directory does not have
// to exist yet; EnsureDirectory creates it.
func NewPathValidator(dir string) (*PathValidator, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}
	return &PathValidator{configuredDirectory: filepath.Clean(abs)}, nil
}

// Directory returns the absolute guarded directory.
func (v *PathValidator) Directory() string {
	return v.configuredDirectory
}

// EnsureDirectory creates the guarded directory if needed.
func (v *PathValidator) EnsureDirectory() error {
	info, err := os.Stat(v.configuredDirectory)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", v.configuredDirectory)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	return os.MkdirAll(v.configuredDirectory, 0o755)
}

// IsPathWithinDirectory reports whether path, after cleaning and symlink
// resolution, stays inside the guarded directory.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	cleanPath := filepath.Clean(absPath)
	cleanDir := v.configuredDirectory

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	within := func(p string) bool {
		return under(p, cleanDir) || under(p, realDir)
	}
	return within(cleanPath) && within(realPath), nil
}

func under(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// Resolve maps name to an absolute path inside the directory. Relative names
// are joined to the directory. Null bytes are removed first.
func (v *PathValidator) Resolve(name string) (string, error) {
	name = strings.ReplaceAll(name, "\x00", "")
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(v.configuredDirectory, name)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	ok, err := v.IsPathWithinDirectory(abs)
	if err != nil {
		return "", err
	}
	if !ok || abs == v.configuredDirectory {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, name)
	}
	return abs, nil
}

// ResolveFilename is Resolve for a bare file name: any directory component
// is rejected.
func (v *PathValidator) ResolveFilename(name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q is not a plain file name", ErrOutsideDirectory, name)
	}
	return v.Resolve(name)
}

// WriteFile writes data to name inside the directory. The file is written to
// a temporary sibling and renamed into place.
func (v *PathValidator) WriteFile(name string, data []byte) (string, error) {
	path, err := v.ResolveFilename(name)
	if err != nil {
		return "", err
	}
	if err := v.EnsureDirectory(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(v.configuredDirectory, ".partial-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return path, nil
}

// ReadFile reads a file inside the directory, refusing files larger than
// maxSize bytes when maxSize is positive.
func (v *PathValidator) ReadFile(name string, maxSize int64) ([]byte, error) {
	path, err := v.Resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory: %s", name)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("file %s is %d bytes, limit is %d", name, info.Size(), maxSize)
	}
	return io.ReadAll(f)
}
