// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package storage

import "strings"

// FileType classifies a directory entry. Parent marks the synthesized or
// on-disk "." / ".." self-pointers; iterators emit them so callers can
// choose to filter them out.
type FileType uint8

const (
	FTUnknown FileType = iota
	FTFile
	FTDirectory
	FTParent
	FTSymLink
)

func (t FileType) String() string {
	switch t {
	case FTFile:
		return "file"
	case FTDirectory:
		return "directory"
	case FTParent:
		return "parent"
	case FTSymLink:
		return "symlink"
	default:
		return "unknown"
	}
}

// DirEntry is yielded by directory iteration. Offset is backend-opaque and
// is handed back to File.Open to resolve the child; Id is a
// filesystem-scoped identifier suitable for hard-link detection; Nlen is
// the length the name would be were it not truncated into the caller's
// buffer, so a caller can detect truncation and retry with a bigger one.
type DirEntry struct {
	Offset uint64
	ID     uint64
	Nlen   int
	Type   FileType
}

// Dir iterates the children of an open directory. Next returns false once
// the directory is exhausted (or, for ext4, once a partial read signals
// end of stream — see the ext4 package).
type Dir interface {
	// Next advances to the next entry, writing its name into name and
	// returning the entry descriptor. ok is false at end of directory.
	Next(name []byte) (entry DirEntry, ok bool, err error)
}

// File is the uniform navigation node every backend exposes: readable
// bytes, optionally a directory, with a path-lookup convenience built on
// top of Dir/Open.
type File interface {
	// ReadBytes reads into buf starting at byte offset off within the
	// file's content, returning the number of bytes copied. Reads at or
	// past the end of file return (0, nil), never an error.
	ReadBytes(off uint64, buf []byte) (int, error)

	// Dir returns an iterator if this File is a directory. For any other
	// File, a backend returns either a nil Dir or an error.
	Dir() (Dir, error)

	// Open opens a child by the backend-opaque offset a Dir previously
	// yielded.
	Open(childOffset uint64) (File, error)

	// Attr returns this file's attribute bag.
	Attr() Attributes

	// Type reports this file's FileType.
	Type() FileType
}

// Lookup scans dir (which must be a directory) for an entry whose name
// matches name exactly (byte-for-byte, no case folding). Unknown-typed
// entries are skipped, matching the on-disk reality that a slot decoding
// to Unknown carries no usable child.
func Lookup(f File, name string) (File, error) {
	d, err := f.Dir()
	if err != nil {
		return nil, Wrap("lookup", err)
	}
	if d == nil {
		return nil, ErrInvalidFormat("lookup: not a directory")
	}

	buf := make([]byte, max(256, len(name)))
	for {
		entry, ok, err := d.Next(buf)
		if err != nil {
			return nil, Wrap("lookup", err)
		}
		if !ok {
			return nil, ErrInvalidFormat("lookup: not found")
		}
		if entry.Type == FTUnknown {
			continue
		}
		if entry.Nlen > len(buf) {
			// Truncated: buf holds at least len(name) bytes, so a longer
			// name cannot equal name.
			continue
		}
		if string(buf[:entry.Nlen]) == name {
			return f.Open(entry.Offset)
		}
	}
}

// LookupPath splits path on '/', ignoring empty components (so leading,
// trailing, and doubled slashes are tolerated), and resolves each
// component in turn starting from root. It fails fast on the first
// missing component.
func LookupPath(root File, path string) (File, error) {
	cur := root
	for _, comp := range strings.Split(path, "/") {
		if comp == "" {
			continue
		}
		next, err := Lookup(cur, comp)
		if err != nil {
			return nil, Wrapf(err, "lookup_path: component %q", comp)
		}
		cur = next
	}
	return cur, nil
}
