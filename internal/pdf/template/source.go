// Package template supplies the bytes of the blank form a fill starts from.
package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	pdferrors "github.com/vredrick/cofa-passport/internal/pdf/errors"
)

// DefaultMaxSize bounds a template payload when no limit is configured.
const DefaultMaxSize int64 = 20 * 1024 * 1024

var (
	ErrEmpty    = errors.New("template is empty")
	ErrTooLarge = errors.New("template exceeds size limit")
	ErrNotPDF   = errors.New("template is not a PDF")
)

var pdfMagic = []byte("%PDF-")

// Source fetches the raw bytes of a template. Implementations must return a
// slice the caller may keep; callers must not modify it.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// Check rejects payloads that cannot be a usable template. A maxSize of zero
// or less disables the size limit.
func Check(b []byte, maxSize int64) error {
	switch {
	case len(b) == 0:
		return ErrEmpty
	case maxSize > 0 && int64(len(b)) > maxSize:
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(b), maxSize)
	case !bytes.HasPrefix(b, pdfMagic):
		return ErrNotPDF
	}
	return nil
}

// unavailable wraps a fetch failure for the named source.
func unavailable(name string, err error) error {
	return pdferrors.WrapError(pdferrors.ErrorTypeTemplateUnavailable, err).WithSource(name)
}

// malformed wraps a payload that failed Check.
func malformed(name string, err error) error {
	return pdferrors.WrapError(pdferrors.ErrorTypeTemplateMalformed, err).WithSource(name)
}

// FileSource reads the template from the local filesystem on every Fetch.
type FileSource struct {
	Path    string
	MaxSize int64
}

// NewFileSource returns a FileSource with the default size limit.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, MaxSize: DefaultMaxSize}
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(s.Path, err)
	}

	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	if info.IsDir() {
		return nil, unavailable(s.Path, fmt.Errorf("%s is a directory", s.Path))
	}
	if s.MaxSize > 0 && info.Size() > s.MaxSize {
		return nil, malformed(s.Path, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size(), s.MaxSize))
	}

	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	if err := Check(b, s.MaxSize); err != nil {
		return nil, malformed(s.Path, err)
	}
	return b, nil
}

// BytesSource serves a template already held in memory.
type BytesSource struct {
	Label string
	Data  []byte
}

func (s *BytesSource) Name() string {
	if s.Label == "" {
		return "memory"
	}
	return s.Label
}

func (s *BytesSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(s.Name(), err)
	}
	if err := Check(s.Data, 0); err != nil {
		return nil, malformed(s.Name(), err)
	}
	return s.Data, nil
}
