package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/storage"
)

// fakeFile is a minimal in-memory tree used to exercise Lookup/LookupPath
// without depending on any real backend.
type fakeFile struct {
	typ      storage.FileType
	children []fakeChild
}

type fakeChild struct {
	name string
	typ  storage.FileType
	node *fakeFile
}

type fakeDir struct {
	entries []fakeChild
	pos     int
}

func (d *fakeDir) Next(name []byte) (storage.DirEntry, bool, error) {
	if d.pos >= len(d.entries) {
		return storage.DirEntry{}, false, nil
	}
	c := d.entries[d.pos]
	n := copy(name, c.name)
	entry := storage.DirEntry{
		Offset: uint64(d.pos),
		ID:     uint64(d.pos),
		Nlen:   len(c.name),
		Type:   c.typ,
	}
	_ = n
	d.pos++
	return entry, true, nil
}

func (f *fakeFile) ReadBytes(off uint64, buf []byte) (int, error) { return 0, nil }

func (f *fakeFile) Dir() (storage.Dir, error) {
	if f.typ != storage.FTDirectory {
		return nil, nil
	}
	return &fakeDir{entries: f.children}, nil
}

func (f *fakeFile) Open(childOffset uint64) (storage.File, error) {
	return f.children[childOffset].node, nil
}

func (f *fakeFile) Attr() storage.Attributes { return storage.NewBag() }
func (f *fakeFile) Type() storage.FileType   { return f.typ }

func buildTestTree() *fakeFile {
	leaf := &fakeFile{typ: storage.FTFile}
	sub := &fakeFile{typ: storage.FTDirectory, children: []fakeChild{
		{name: "b.txt", typ: storage.FTFile, node: leaf},
	}}
	root := &fakeFile{typ: storage.FTDirectory, children: []fakeChild{
		{name: ".", typ: storage.FTParent, node: nil},
		{name: "sub", typ: storage.FTDirectory, node: sub},
	}}
	return root
}

func TestLookupFindsEntry(t *testing.T) {
	root := buildTestTree()

	found, err := storage.Lookup(root, "sub")
	require.NoError(t, err)
	require.Equal(t, storage.FTDirectory, found.Type())
}

func TestLookupSkipsUnknownAndReturnsErrorWhenMissing(t *testing.T) {
	root := buildTestTree()
	// An Unknown-typed slot carrying the searched name must be skipped.
	root.children = append(root.children, fakeChild{name: "nonexistent", typ: storage.FTUnknown})

	_, err := storage.Lookup(root, "nonexistent")
	require.Error(t, err)
	require.True(t, storage.IsInvalidFormat(err))
}

func TestLookupOnNonDirectoryFails(t *testing.T) {
	leaf := &fakeFile{typ: storage.FTFile}

	_, err := storage.Lookup(leaf, "anything")
	require.Error(t, err)
}

func TestLookupPathResolvesNestedComponents(t *testing.T) {
	root := buildTestTree()

	found, err := storage.LookupPath(root, "/sub/b.txt/")
	require.NoError(t, err)
	require.Equal(t, storage.FTFile, found.Type())
}

func TestLookupPathEmptyReturnsRoot(t *testing.T) {
	root := buildTestTree()

	found, err := storage.LookupPath(root, "///")
	require.NoError(t, err)
	require.Same(t, root, found.(*fakeFile))
}
