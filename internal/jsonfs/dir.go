package jsonfs

import "github.com/ostafen/storagefs/pkg/storage"

// objectDir iterates a JSON object's keys in sorted order, matching
// Open(childOffset)'s independently-recomputed sortedKeys ordering.
type objectDir struct {
	obj  map[string]any
	keys []string
	idx  int
}

func (d *objectDir) Next(name []byte) (storage.DirEntry, bool, error) {
	if d.idx >= len(d.keys) {
		return storage.DirEntry{}, false, nil
	}
	key := d.keys[d.idx]
	offset := uint64(d.idx)
	d.idx++

	copy(name, key)
	return storage.DirEntry{
		Offset: offset,
		ID:     offset,
		Nlen:   len(key),
		Type:   childType(d.obj[key]),
	}, true, nil
}

var _ storage.Dir = (*objectDir)(nil)

// arrayDir iterates a JSON array, naming children by decimal index —
// the original_source supplement for arrays-as-directories.
type arrayDir struct {
	arr []any
	idx int
}

func (d *arrayDir) Next(name []byte) (storage.DirEntry, bool, error) {
	if d.idx >= len(d.arr) {
		return storage.DirEntry{}, false, nil
	}
	offset := uint64(d.idx)
	label := storage.NewNameBuilder(make([]byte, 0, 20)).Uint(offset).Result()
	d.idx++

	copy(name, label)
	return storage.DirEntry{
		Offset: offset,
		ID:     offset,
		Nlen:   len(label),
		Type:   childType(d.arr[offset]),
	}, true, nil
}

var _ storage.Dir = (*arrayDir)(nil)

func childType(v any) storage.FileType {
	switch v.(type) {
	case map[string]any, []any:
		return storage.FTDirectory
	default:
		return storage.FTFile
	}
}
