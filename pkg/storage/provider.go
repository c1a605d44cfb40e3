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

// Package storage defines the byte-provider and file/directory contracts
// shared by every decoder in this module (ext4, FAT, MBR, JSON).
package storage

// Provider is the minimal byte-addressed read surface every backend mounts
// on top of. A short read is legal; ReadExact loops until satisfied. A
// return of (0, nil) means EOF. Implementations must be safe to call from
// multiple readers without interior mutation of their own state.
type Provider interface {
	// ReadBytes copies min(len(buf), available) bytes starting at off into
	// buf and returns the number of bytes copied.
	ReadBytes(off uint64, buf []byte) (int, error)
}

// Writer is the optional write-side of Provider, used only by the mkfs
// planner (internal/fat/mkfs). The read path never requires it.
type Writer interface {
	Provider

	// WriteBytes writes len(buf) bytes at off, returning the number written.
	WriteBytes(off uint64, buf []byte) (int, error)

	// Discard zeroes (or otherwise invalidates) n bytes starting at off and
	// returns the number of bytes discarded.
	Discard(off uint64, n uint64) (uint64, error)
}
