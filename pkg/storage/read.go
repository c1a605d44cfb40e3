package storage

import (
	"bytes"
	"encoding/binary"
)

// ReadExact loops on Provider.ReadBytes until buf is completely filled,
// returning ErrPartialRead if the provider reports EOF early.
func ReadExact(p Provider, off uint64, buf []byte) error {
	want := len(buf)
	got := 0
	for got < want {
		n, err := p.ReadBytes(off+uint64(got), buf[got:])
		if err != nil {
			return Wrap("read_exact", err)
		}
		if n == 0 {
			return ErrPartialRead("read_exact: eof after reading")
		}
		got += n
	}
	return nil
}

// ReadObject reads exactly binary.Size(T) bytes at off and decodes them
// field-by-field into T as little-endian, the way every on-disk structure
// in this module is laid out. T must be a plain-old-data layout: fixed-size
// fields and arrays only, no pointers, no slices, no maps, no interfaces.
// Decoding field-by-field (rather than reinterpreting a raw byte slice as
// *T) sidesteps Go's own struct-padding rules, which rarely match a packed
// on-disk C layout; it is the "generated accessor" the design notes call
// for instead of touching the raw struct's memory directly.
func ReadObject[T any](p Provider, off uint64) (T, error) {
	var obj T
	size := binary.Size(obj)
	if size < 0 {
		return obj, ErrInvalidFormat("read_object: type has no fixed binary size")
	}
	buf := make([]byte, size)
	if err := ReadExact(p, off, buf); err != nil {
		var zero T
		return zero, Wrap("read_object", err)
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &obj); err != nil {
		var zero T
		return zero, Wrap("read_object: decode", err)
	}
	return obj, nil
}

// DetectSize binary-searches for the size of p by probing single-byte
// reads at increasing offsets: a successful read means the provider
// extends past that offset, a failed (0-byte) read means it's at or past
// the end. Converges on the smallest offset at which reads start failing,
// which is the provider's size.
func DetectSize(p Provider) (uint64, error) {
	var one [1]byte
	failsAt := func(o uint64) (bool, error) {
		n, err := p.ReadBytes(o, one[:])
		if err != nil {
			return false, Wrap("detect_size", err)
		}
		return n == 0, nil
	}

	if f, err := failsAt(0); err != nil {
		return 0, err
	} else if f {
		return 0, nil
	}

	// Find an upper bound by doubling: lo always reads, hi always fails.
	lo, hi := uint64(0), uint64(1)
	for {
		f, err := failsAt(hi)
		if err != nil {
			return 0, err
		}
		if f {
			break
		}
		lo = hi
		if hi > (1 << 62) {
			return 0, ErrInvalidFormat("detect_size: provider never reached EOF")
		}
		hi *= 2
	}

	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		f, err := failsAt(mid)
		if err != nil {
			return 0, err
		}
		if f {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
