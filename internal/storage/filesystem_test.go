package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	for _, dir := range []string{"music", "photos/2024", ".cache"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(dir)), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), []byte("hello"), 0o644))
	return base
}

func names(entries []*FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestListDirectory(t *testing.T) {
	base := makeTree(t)

	entries, err := ListDirectory(base, ".", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"music", "notes.txt", "photos"}, names(entries))

	notes := entries[1]
	assert.False(t, notes.IsDir)
	assert.Equal(t, int64(5), notes.Size)
	assert.Equal(t, "notes.txt", notes.Path)
	assert.Equal(t, filepath.Join(base, "notes.txt"), notes.Location)
}

func TestListDirectoryOptions(t *testing.T) {
	base := makeTree(t)

	dirs, err := ListDirectory(base, "", ListOptions{DirsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"music", "photos"}, names(dirs))

	all, err := ListDirectory(base, "", ListOptions{ShowHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".cache", "music", "notes.txt", "photos"}, names(all))
}

func TestListDirectoryRejectsTraversal(t *testing.T) {
	base := makeTree(t)

	_, err := ListDirectory(filepath.Join(base, "music"), "../photos", ListOptions{})
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestBuildTree(t *testing.T) {
	base := makeTree(t)

	tree, err := BuildTree(base, ".", 1, ListOptions{DirsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Name)
	assert.Equal(t, []string{"music", "photos"}, names(tree.Children))

	photos := tree.Children[1]
	assert.Equal(t, []string{"2024"}, names(photos.Children))
	assert.Equal(t, "photos/2024", photos.Children[0].Path)
	assert.Equal(t, filepath.Join(base, "photos", "2024"), photos.Children[0].Location)
}

func TestBuildTreeDepthZero(t *testing.T) {
	base := makeTree(t)

	tree, err := BuildTree(base, "photos", 0, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "photos", tree.Name)
	require.Len(t, tree.Children, 1)
	assert.Nil(t, tree.Children[0].Children)
}

func TestSymlinkOutsideRootIsNotListed(t *testing.T) {
	base := makeTree(t)
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
	if err := os.Symlink(outside, filepath.Join(base, "escape")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := ListDirectory(base, "escape", ListOptions{})
	assert.True(t, errors.Is(err, os.ErrPermission), "got %v", err)

	tree, err := BuildTree(base, ".", 1, ListOptions{DirsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"escape", "music", "photos"}, names(tree.Children))
	assert.Nil(t, tree.Children[0].Children)
}

func TestSymlinkInsideRootIsListed(t *testing.T) {
	base := makeTree(t)
	if err := os.Symlink(filepath.Join(base, "photos"), filepath.Join(base, "pics")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	entries, err := ListDirectory(base, "pics", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024"}, names(entries))
	assert.Equal(t, filepath.Join(base, "pics", "2024"), entries[0].Location)
}

func TestListDirectoryMissing(t *testing.T) {
	base := makeTree(t)

	_, err := ListDirectory(base, "nope", ListOptions{})
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}
