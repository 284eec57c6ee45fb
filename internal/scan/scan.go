// Package scan walks a directory tree concurrently and streams one report per
// discovered entry. Symbolic links are reported but never followed.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tw93/diskmap/internal/tree"
)

// Worker pool configuration
const (
	minWorkers    = 8  // Minimum workers for better I/O throughput
	maxWorkers    = 64 // Maximum workers to avoid excessive goroutines
	cpuMultiplier = 2  // Worker multiplier per CPU core for I/O-bound operations
)

// Report is one walker result. Err is set when the entry could not be read;
// Kind and Size are then meaningless.
type Report struct {
	Path     string
	Segments []string
	Kind     tree.Kind
	Size     int64
	Err      error
}

type Options struct {
	// ApparentSize reports file lengths instead of allocated blocks.
	ApparentSize bool
	// Workers bounds concurrent directory reads. Zero picks a default from
	// the CPU count.
	Workers int
	Logger  *zap.Logger
}

// Stats is a snapshot of the walker's progress counters.
type Stats struct {
	Files  int64
	Dirs   int64
	Bytes  int64
	Failed int64
}

type Walker struct {
	root   string
	opts   Options
	sem    *semaphore.Weighted
	logger *zap.Logger

	filesScanned atomic.Int64
	dirsScanned  atomic.Int64
	bytesScanned atomic.Int64
	failed       atomic.Int64
}

func New(root string, opts Options) *Walker {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		root:   root,
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.Workers)),
		logger: logger,
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU() * cpuMultiplier
	if n < minWorkers {
		n = minWorkers
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

func (w *Walker) Stats() Stats {
	return Stats{
		Files:  w.filesScanned.Load(),
		Dirs:   w.dirsScanned.Load(),
		Bytes:  w.bytesScanned.Load(),
		Failed: w.failed.Load(),
	}
}

// Walk reports every entry under the root. emit may be called from several
// goroutines at once; an error from emit stops the walk and is returned.
// Unreadable entries are reported, not returned.
func (w *Walker) Walk(ctx context.Context, emit func(Report) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.walkDir(ctx, g, w.root, nil, emit)
	})
	return g.Wait()
}

func (w *Walker) walkDir(ctx context.Context, g *errgroup.Group, dir string, segments []string, emit func(Report) error) error {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	children, err := os.ReadDir(dir)
	w.sem.Release(1)
	if err != nil {
		w.failed.Add(1)
		w.logger.Debug("read dir failed", zap.String("path", dir), zap.Error(err))
		return emit(Report{Path: dir, Segments: segments, Err: err})
	}
	w.dirsScanned.Add(1)

	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		fullPath := filepath.Join(dir, child.Name())
		childSegments := make([]string, len(segments)+1)
		copy(childSegments, segments)
		childSegments[len(segments)] = child.Name()

		info, err := child.Info()
		if err != nil {
			w.failed.Add(1)
			if err := emit(Report{Path: fullPath, Segments: childSegments, Err: err}); err != nil {
				return err
			}
			continue
		}

		if info.IsDir() {
			if err := emit(Report{Path: fullPath, Segments: childSegments, Kind: tree.Folder}); err != nil {
				return err
			}
			g.Go(func() error {
				return w.walkDir(ctx, g, fullPath, childSegments, emit)
			})
			continue
		}

		size := w.size(fullPath, info)
		w.filesScanned.Add(1)
		w.bytesScanned.Add(size)
		if err := emit(Report{Path: fullPath, Segments: childSegments, Kind: tree.File, Size: size}); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) size(path string, info fs.FileInfo) int64 {
	if w.opts.ApparentSize {
		return info.Size()
	}
	return diskUsage(path, info)
}
