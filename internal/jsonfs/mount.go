// Package jsonfs adapts a JSON document into the storage.File contract:
// objects and arrays become directories, scalars become leaf files whose
// bytes are the value rendered as text. Array-as-directory (children
// named by decimal index) is a supplement pulled from original_source,
// dropped by the spec's distillation but implemented here since it's a
// natural extension of "JSON document as directory tree".
package jsonfs

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ostafen/storagefs/pkg/storage"
)

// Mount is a read-only view of a single parsed JSON document.
type Mount struct {
	root any
}

// Open parses the entirety of p as JSON. This is the one backend in the
// module that must buffer its whole input to decode — a JSON document
// has no fixed-offset index to seek into, unlike a block-oriented
// filesystem image.
func Open(p storage.Provider) (*Mount, error) {
	size, err := storage.DetectSize(p)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if err := storage.ReadExact(p, 0, buf); err != nil {
		return nil, storage.Wrap("jsonfs: read document", err)
	}

	var root any
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, storage.ErrInvalidFormatf("jsonfs: %s", err)
	}
	return &Mount{root: root}, nil
}

// Root returns the document's top-level node as a storage.File.
func (m *Mount) Root() (storage.File, error) {
	return &node{value: m.root}, nil
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
