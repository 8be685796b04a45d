package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.hcl", "a.hcl", "sub/c.hcl", "sub/notes.txt", ".git/config.hcl")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "sub", "c.hcl"),
	}, files)
}

func TestFindFilesByExtension_SingleFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "only.hcl")

	files, err := FindFilesByExtension(filepath.Join(root, "only.hcl"), ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "only.hcl")}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	require.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(".", "") })
}

func TestFindDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/x.hcl", "a/b/y.hcl", ".cache/z.hcl")

	dirs, err := FindDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "a"), filepath.Join(root, "a", "b")}, dirs)
}
