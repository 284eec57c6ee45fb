package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tw93/diskmap/internal/tree"
)

type collector struct {
	mu      sync.Mutex
	reports map[string]Report
}

func (c *collector) emit(r Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reports == nil {
		c.reports = make(map[string]Report)
	}
	c.reports[strings.Join(r.Segments, "/")] = r
	return nil
}

func (c *collector) keys() []string {
	keys := make([]string, 0, len(c.reports))
	for k := range c.reports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestWalkApparentSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 100)
	writeFile(t, filepath.Join(root, "b", "c"), 50)
	writeFile(t, filepath.Join(root, "b", "d", "e"), 7)
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	w := New(root, Options{ApparentSize: true, Workers: 2})
	c := &collector{}
	require.NoError(t, w.Walk(context.Background(), c.emit))

	assert.Equal(t, []string{"a", "b", "b/c", "b/d", "b/d/e", "empty"}, c.keys())

	tests := []struct {
		key  string
		kind tree.Kind
		size int64
	}{
		{"a", tree.File, 100},
		{"b", tree.Folder, 0},
		{"b/c", tree.File, 50},
		{"b/d/e", tree.File, 7},
		{"empty", tree.Folder, 0},
	}
	for _, tt := range tests {
		r := c.reports[tt.key]
		assert.NoError(t, r.Err, tt.key)
		assert.Equal(t, tt.kind, r.Kind, tt.key)
		assert.Equal(t, tt.size, r.Size, tt.key)
		assert.Equal(t, filepath.Join(append([]string{root}, r.Segments...)...), r.Path)
	}

	stats := w.Stats()
	assert.Equal(t, int64(3), stats.Files)
	assert.Equal(t, int64(4), stats.Dirs)
	assert.Equal(t, int64(157), stats.Bytes)
	assert.Zero(t, stats.Failed)
}

func TestWalkFeedsTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 100)
	writeFile(t, filepath.Join(root, "b", "c"), 50)

	var mu sync.Mutex
	tr := tree.New(root)
	err := New(root, Options{ApparentSize: true}).Walk(context.Background(), func(r Report) error {
		mu.Lock()
		defer mu.Unlock()
		if r.Err != nil {
			tr.IncrementFailedToRead()
			return nil
		}
		tr.Insert(r.Segments, r.Size, r.Kind)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150), tr.TotalSize())
	assert.Equal(t, int64(3), tr.TotalDescendants())
}

func TestWalkDoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "big"), 4096)
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	c := &collector{}
	require.NoError(t, New(root, Options{ApparentSize: true}).Walk(context.Background(), c.emit))

	assert.Equal(t, []string{"link"}, c.keys())
	assert.Equal(t, tree.File, c.reports["link"].Kind)
}

func TestWalkReportsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret"), 10)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	w := New(root, Options{ApparentSize: true})
	var mu sync.Mutex
	var failed []Report
	err := w.Walk(context.Background(), func(r Report) error {
		if r.Err != nil {
			mu.Lock()
			failed = append(failed, r)
			mu.Unlock()
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, locked, failed[0].Path)
	assert.Equal(t, int64(1), w.Stats().Failed)
}

func TestWalkStopsOnEmitError(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, filepath.Join(root, "d", string(rune('a'+i))), 1)
	}
	errStop := errors.New("stop")
	err := New(root, Options{}).Walk(context.Background(), func(Report) error { return errStop })
	assert.ErrorIs(t, err, errStop)
}

func TestWalkHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(root, Options{}).Walk(ctx, func(Report) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalkDiskUsageMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f"), 5000)

	c := &collector{}
	require.NoError(t, New(root, Options{}).Walk(context.Background(), c.emit))
	r := c.reports["f"]
	require.NoError(t, r.Err)
	assert.GreaterOrEqual(t, r.Size, int64(0))
	if runtime.GOOS != "windows" {
		assert.Zero(t, r.Size%512)
	}
}

func TestDefaultWorkers(t *testing.T) {
	n := defaultWorkers()
	assert.GreaterOrEqual(t, n, minWorkers)
	assert.LessOrEqual(t, n, maxWorkers)
}
