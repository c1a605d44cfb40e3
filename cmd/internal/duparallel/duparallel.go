// Package duparallel implements the bounded worker pool behind the
// du-parallel CLI subcommand (SPEC_FULL §4.16). It is a CLI-only
// consumer of the File contract's sharing rule — no core package
// depends on it.
package duparallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ostafen/storagefs/internal/logger"
	"github.com/ostafen/storagefs/pkg/storage"
)

// Sum walks f recursively and serially, returning the total of every
// SIZE attribute found — the single-threaded baseline du compares
// against.
func Sum(f storage.File) (int64, error) {
	var total int64
	if err := sumInto(f, &total); err != nil {
		return 0, err
	}
	return total, nil
}

func sumInto(f storage.File, total *int64) error {
	if f.Type() != storage.FTDirectory {
		size, _ := f.Attr().Get(storage.KeySize, nil)
		*total += int64(size.U64())
		return nil
	}

	d, err := f.Dir()
	if err != nil {
		return storage.Wrap("du: dir", err)
	}
	if d == nil {
		return nil
	}

	buf := make([]byte, 256)
	for {
		entry, ok, err := d.Next(buf)
		if err != nil {
			return storage.Wrap("du: walk", err)
		}
		if !ok {
			return nil
		}
		if entry.Type == storage.FTParent || entry.Type == storage.FTUnknown {
			continue
		}
		child, err := f.Open(entry.Offset)
		if err != nil {
			return storage.Wrap("du: open child", err)
		}
		if err := sumInto(child, total); err != nil {
			return err
		}
	}
}

// Parallel fans the immediate children of root out across an
// errgroup.Group bounded by runtime.NumCPU() workers. Each worker opens
// its own File handle via root.Open(entry.Offset) and recurses
// serially from there — legal because the mount root is shared but
// immutable, and every Open call returns a fresh, independently-cached
// handle (spec.md §5's sharing rule).
func Parallel(ctx context.Context, root storage.File, log *logger.Logger) (int64, error) {
	if root.Type() != storage.FTDirectory {
		size, _ := root.Attr().Get(storage.KeySize, nil)
		return int64(size.U64()), nil
	}

	d, err := root.Dir()
	if err != nil {
		return 0, storage.Wrap("du-parallel: dir", err)
	}
	if d == nil {
		return 0, nil
	}

	var total int64
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	buf := make([]byte, 256)
	for {
		entry, ok, err := d.Next(buf)
		if err != nil {
			return 0, storage.Wrap("du-parallel: walk", err)
		}
		if !ok {
			break
		}
		if entry.Type == storage.FTParent || entry.Type == storage.FTUnknown {
			continue
		}

		offset := entry.Offset
		name := string(buf[:min(entry.Nlen, len(buf))])

		g.Go(func() error {
			child, err := root.Open(offset)
			if err != nil {
				return storage.Wrapf(err, "du-parallel: open %q", name)
			}
			var sub int64
			if err := sumInto(child, &sub); err != nil {
				if log != nil {
					log.WithField("path", name).Warn(err.Error())
				}
				return nil
			}
			atomic.AddInt64(&total, sub)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return atomic.LoadInt64(&total), nil
}
