package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)
	_, err = NewPathValidator("   ")
	assert.Error(t, err)

	v, err := NewPathValidator("relative/out")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.Directory()))
}

func TestPathValidator_Resolve(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "plain file", path: "a.pdf", want: filepath.Join(dir, "a.pdf")},
		{name: "sub directory", path: "sub/a.pdf", want: filepath.Join(dir, "sub", "a.pdf")},
		{name: "absolute inside", path: filepath.Join(dir, "b.pdf"), want: filepath.Join(dir, "b.pdf")},
		{name: "null bytes stripped", path: "c\x00.pdf", want: filepath.Join(dir, "c.pdf")},
		{name: "dot dot escape", path: "../escape.pdf", wantErr: true},
		{name: "absolute outside", path: "/etc/passwd", wantErr: true},
		{name: "sibling prefix", path: dir + "-other/x.pdf", wantErr: true},
		{name: "the directory itself", path: ".", wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_ResolveFilename(t *testing.T) {
	v, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)

	_, err = v.ResolveFilename("PassportApplication_ROBERT_SAU_20260221.pdf")
	assert.NoError(t, err)

	for _, name := range []string{"sub/a.pdf", "../a.pdf", "..", "."} {
		_, err := v.ResolveFilename(name)
		assert.True(t, errors.Is(err, ErrOutsideDirectory), name)
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF"), 0o644))

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	ok, err := v.IsPathWithinDirectory(link)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = v.ReadFile("link.pdf", 0)
	assert.ErrorIs(t, err, ErrOutsideDirectory)
}

func TestPathValidator_WriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	path, err := v.WriteFile("doc.pdf", []byte("%PDF-1.7 body"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc.pdf"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.pdf", entries[0].Name())

	data, err := v.ReadFile("doc.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))

	_, err = v.ReadFile("doc.pdf", 4)
	assert.Error(t, err)

	_, err = v.WriteFile("../doc.pdf", []byte("x"))
	assert.Error(t, err)
}

func TestPathValidator_EnsureDirectory(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	v, err := NewPathValidator(file)
	require.NoError(t, err)
	assert.Error(t, v.EnsureDirectory())

	v, err = NewPathValidator(filepath.Join(base, "a", "b"))
	require.NoError(t, err)
	require.NoError(t, v.EnsureDirectory())
	info, err := os.Stat(v.Directory())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
