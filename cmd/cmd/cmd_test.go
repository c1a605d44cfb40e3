package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/internal/fat/mkfs"
	"github.com/ostafen/storagefs/internal/fs"
	"github.com/ostafen/storagefs/internal/jsonfs"
	"github.com/ostafen/storagefs/internal/unified"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func TestHasGlobMeta(t *testing.T) {
	require.True(t, hasGlobMeta("*.txt"))
	require.True(t, hasGlobMeta("file?.txt"))
	require.True(t, hasGlobMeta("[ab].txt"))
	require.False(t, hasGlobMeta("plain/path.txt"))
}

func TestProfileNamesListsEveryProfile(t *testing.T) {
	names := profileNames()
	for name := range mkfs.Profiles {
		require.Contains(t, names, name)
	}
}

func TestWalkGlobMatchesNestedPaths(t *testing.T) {
	doc := `{"a": {"b": 1, "c": 2}, "d": 3}`
	m, err := jsonfs.Open(memory.New([]byte(doc)))
	require.NoError(t, err)
	root, err := m.Root()
	require.NoError(t, err)

	out := captureStdout(t, func() {
		require.NoError(t, walkGlob(root, "", "a/*"))
	})
	require.Contains(t, out, "a/b")
	require.Contains(t, out, "a/c")
	require.NotContains(t, out, "a/c/")
}

func TestWalkGlobMatchesTopLevelOnly(t *testing.T) {
	doc := `{"x": 1, "y": 2}`
	m, err := jsonfs.Open(memory.New([]byte(doc)))
	require.NoError(t, err)
	root, err := m.Root()
	require.NoError(t, err)

	out := captureStdout(t, func() {
		require.NoError(t, walkGlob(root, "", "x"))
	})
	require.Equal(t, "x\n", out)
}

func TestOpenMountRecognizesFreshlyFormattedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disk.img")

	plan, err := mkfs.ComputePlan(mkfs.Params{TotalSize: 2 << 20, SectorSize: 512})
	require.NoError(t, err)

	w, err := fs.CreateWriter(path, int64(plan.TotalSize))
	require.NoError(t, err)
	require.NoError(t, mkfs.Write(w, plan))
	require.NoError(t, w.Close())

	m, closer, err := openMount(path)
	require.NoError(t, err)
	defer closer.Close()
	require.Equal(t, unified.KindFAT, m.Kind)
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var sb strings.Builder
	_, err = io.Copy(&sb, r)
	require.NoError(t, err)
	return sb.String()
}
