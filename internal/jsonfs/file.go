package jsonfs

import (
	"encoding/json"

	"github.com/ostafen/storagefs/pkg/storage"
)

// node is the storage.File implementation for a single decoded JSON
// value: an object or array node is a directory, everything else is a
// leaf file whose ReadBytes serves its rendered text form.
type node struct {
	value any
	text  []byte // lazily rendered leaf bytes
}

var _ storage.File = (*node)(nil)

func (n *node) Type() storage.FileType {
	switch n.value.(type) {
	case map[string]any, []any:
		return storage.FTDirectory
	default:
		return storage.FTFile
	}
}

func (n *node) Attr() storage.Attributes {
	b := storage.NewBag()
	if n.Type() == storage.FTFile {
		n.render()
		b.Add(storage.KeySize, storage.ValueU64(uint64(len(n.text))))
	}
	return b
}

// render renders a scalar value to its file content: the JSON
// re-serialization of the value, byte for byte, so a string leaf reads
// back as `"widget"` (quotes included), not the bare `widget`.
func (n *node) render() {
	if n.text != nil {
		return
	}
	b, _ := json.Marshal(n.value)
	n.text = b
}

func (n *node) ReadBytes(off uint64, buf []byte) (int, error) {
	if n.Type() != storage.FTFile {
		return 0, storage.ErrInvalidFormatf("jsonfs: not a leaf value")
	}
	n.render()
	if off >= uint64(len(n.text)) {
		return 0, nil
	}
	return copy(buf, n.text[off:]), nil
}

func (n *node) Dir() (storage.Dir, error) {
	switch v := n.value.(type) {
	case map[string]any:
		return &objectDir{obj: v, keys: sortedKeys(v)}, nil
	case []any:
		return &arrayDir{arr: v}, nil
	default:
		return nil, storage.ErrInvalidFormatf("jsonfs: not a container value")
	}
}

func (n *node) Open(childOffset uint64) (storage.File, error) {
	switch v := n.value.(type) {
	case map[string]any:
		keys := sortedKeys(v)
		if childOffset >= uint64(len(keys)) {
			return nil, storage.ErrInvalidFormatf("jsonfs: child index out of range")
		}
		return &node{value: v[keys[childOffset]]}, nil
	case []any:
		if childOffset >= uint64(len(v)) {
			return nil, storage.ErrInvalidFormatf("jsonfs: child index out of range")
		}
		return &node{value: v[childOffset]}, nil
	default:
		return nil, storage.ErrInvalidFormatf("jsonfs: not a container value")
	}
}
