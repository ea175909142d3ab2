package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typegen/internal/adapters/fs"
	"go.trai.ch/typegen/internal/core/domain"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), domain.DirPerm))
	require.NoError(t, os.WriteFile(p, []byte(content), domain.PrivateFilePerm))
	return p
}

func TestWalker_Walk(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, ".git/config", "git config")
	writeFile(t, tmpDir, ".typegen/outputs.json", "{}")
	writeFile(t, tmpDir, "ignored/file.properties", "a=1")
	writeFile(t, tmpDir, "src/app.properties", "a=1")
	writeFile(t, tmpDir, "src/app.tmp", "")
	writeFile(t, tmpDir, "README.md", "# Readme")

	files := make(map[string]bool)
	for p, err := range fs.NewWalker().Walk(tmpDir, []string{"ignored", "*.tmp"}) {
		require.NoError(t, err)
		rel, err := filepath.Rel(tmpDir, p)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.Equal(t, map[string]bool{
		"src/app.properties": true,
		"README.md":          true,
	}, files)
}

func TestWalker_WalkMissingRoot(t *testing.T) {
	var errs []error
	for _, err := range fs.NewWalker().Walk(filepath.Join(t.TempDir(), "missing"), nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestIgnoredPath(t *testing.T) {
	ignores := []string{"*.tmp", "build"}

	assert.True(t, fs.IgnoredPath("a/b.tmp", ignores))
	assert.True(t, fs.IgnoredPath("build/a.properties", ignores))
	assert.True(t, fs.IgnoredPath(".git/a.properties", ignores))
	assert.False(t, fs.IgnoredPath("a/.git", nil))
	assert.False(t, fs.IgnoredPath("a/b.properties", ignores))
}

func TestHasher(t *testing.T) {
	p := writeFile(t, t.TempDir(), "a.txt", "hello world")
	hasher := fs.NewHasher()

	h1, err := hasher.HashFile(p)
	require.NoError(t, err)
	assert.Len(t, h1, 16)
	assert.Equal(t, hasher.HashBytes([]byte("hello world")), h1)

	require.NoError(t, os.WriteFile(p, []byte("goodbye"), domain.PrivateFilePerm))
	h2, err := hasher.HashFile(p)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	_, err = hasher.HashFile(p + ".missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "pkg/Messages.Properties", "a=1\r\nb=2\r\n")

	f := fs.NewFile(root, p)
	assert.Equal(t, p, f.Path())
	assert.Equal(t, "pkg/Messages.Properties", f.Rel())
	assert.Equal(t, "Messages.Properties", f.Name())
	assert.Equal(t, "Properties", f.Extension())

	content, err := fs.ReadContent(f)
	require.NoError(t, err)
	assert.Equal(t, "a=1\nb=2\n", content)
}

func TestReadContent_Missing(t *testing.T) {
	root := t.TempDir()
	f := fs.NewFile(root, filepath.Join(root, "gone.properties"))

	content, err := fs.ReadContent(f)
	require.ErrorIs(t, err, domain.ErrSourceIO)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, content)
}

func TestFQNFor(t *testing.T) {
	assert.Equal(t, "a.b.Foo", fs.FQNFor("a/b/Foo.properties"))
	assert.Equal(t, "Foo", fs.FQNFor("Foo.properties"))
	assert.Equal(t, "a.Foo", fs.FQNFor("a/Foo"))
}
