package storage

import (
	"bytes"
	"encoding/binary"
)

// WriteExact loops on Writer.WriteBytes until all of buf has been written.
func WriteExact(w Writer, off uint64, buf []byte) error {
	want := len(buf)
	done := 0
	for done < want {
		n, err := w.WriteBytes(off+uint64(done), buf[done:])
		if err != nil {
			return Wrap("write_exact", err)
		}
		if n == 0 {
			return ErrPartialWrite("write_exact: wrote nothing")
		}
		done += n
	}
	return nil
}

// WriteObject serializes obj (a plain-old-data struct, see ReadObject) and
// writes it at off.
func WriteObject[T any](w Writer, off uint64, obj T) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, obj); err != nil {
		return Wrap("write_object: encode", err)
	}
	return WriteExact(w, off, buf.Bytes())
}

// DiscardAll loops on Writer.Discard until n bytes starting at off have
// been discarded.
func DiscardAll(w Writer, off uint64, n uint64) error {
	done := uint64(0)
	for done < n {
		d, err := w.Discard(off+done, n-done)
		if err != nil {
			return Wrap("discard_all", err)
		}
		if d == 0 {
			return ErrPartialWrite("discard_all: discarded nothing")
		}
		done += d
	}
	return nil
}
