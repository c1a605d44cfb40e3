package storage

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// Kind distinguishes the handful of error conditions callers are expected
// to branch on. Everything else collapses into KindOpaque.
type Kind int

const (
	KindOpaque Kind = iota
	KindPartialRead
	KindPartialWrite
	KindInvalidFormat
)

func (k Kind) String() string {
	switch k {
	case KindPartialRead:
		return "partial read"
	case KindPartialWrite:
		return "partial write"
	case KindInvalidFormat:
		return "invalid format"
	default:
		return "error"
	}
}

// wrappedError carries a Kind alongside an xerrors-framed chain, so a
// file:line is recorded at every wrap point without extra ceremony at the
// call site.
type wrappedError struct {
	kind Kind
	err  error
}

func (e *wrappedError) Error() string { return e.err.Error() }
func (e *wrappedError) Unwrap() error { return e.err }

// newKind builds a leaf error of the given kind at the caller's frame.
func newKind(kind Kind, msg string) error {
	return &wrappedError{kind: kind, err: xerrors.New(msg)}
}

// wrapKind wraps err with msg, tagging the result with kind. If err already
// carries a kind and the caller passes KindOpaque, the original kind is
// preserved so wrapping never downgrades a distinguished error to opaque.
func wrapKind(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	if kind == KindOpaque {
		if k := KindOf(err); k != KindOpaque {
			kind = k
		}
	}
	return &wrappedError{kind: kind, err: xerrors.Errorf("%s: %w", msg, err)}
}

// ErrPartialRead reports that an exact-read operation hit EOF before
// filling its buffer.
func ErrPartialRead(msg string) error { return newKind(KindPartialRead, msg) }

// ErrPartialWrite reports that an exact-write operation could not write
// everything requested.
func ErrPartialWrite(msg string) error { return newKind(KindPartialWrite, msg) }

// ErrInvalidFormat reports a failed decode check (bad magic, bad
// signature, malformed structure, unsupported feature bits).
func ErrInvalidFormat(msg string) error { return newKind(KindInvalidFormat, msg) }

// ErrInvalidFormatf is the Printf-style variant of ErrInvalidFormat.
func ErrInvalidFormatf(format string, args ...any) error {
	return newKind(KindInvalidFormat, fmt.Sprintf(format, args...))
}

// Wrap annotates err with msg and a call-site frame, preserving its Kind.
func Wrap(msg string, err error) error { return wrapKind(KindOpaque, msg, err) }

// Wrapf is the Printf-style variant of Wrap.
func Wrapf(err error, format string, args ...any) error {
	return wrapKind(KindOpaque, fmt.Sprintf(format, args...), err)
}

// KindOf reports the distinguished Kind carried by err, or KindOpaque if
// none of the chain links tagged one.
func KindOf(err error) Kind {
	var w *wrappedError
	if errors.As(err, &w) {
		return w.kind
	}
	return KindOpaque
}

// IsPartialRead reports whether err (or something it wraps) is a
// partial-read error.
func IsPartialRead(err error) bool { return KindOf(err) == KindPartialRead }

// IsInvalidFormat reports whether err (or something it wraps) is an
// invalid-format error.
func IsInvalidFormat(err error) bool { return KindOf(err) == KindInvalidFormat }
