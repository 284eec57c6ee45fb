// Package tree holds the in-memory model of a scanned directory: a folder
// hierarchy whose sizes and descendant counts are rolled up into every
// ancestor as entries are discovered and deleted.
package tree

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

var (
	ErrNotFound         = errors.New("entry not found")
	ErrNotAFolder       = errors.New("entry is not a folder")
	ErrCannotDeleteRoot = errors.New("cannot delete the scan root")
)

// Kind distinguishes files from folders.
type Kind uint8

const (
	File Kind = iota
	Folder
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Folder:
		return "folder"
	default:
		return "unknown"
	}
}

// Entry is one node of the tree. Folder sizes are always the sum of their
// children; Descendants counts every node strictly beneath a folder.
type Entry struct {
	Name        string
	Kind        Kind
	Size        int64
	Descendants int64

	seq      uint64
	children map[string]*Entry
}

func newFolder(name string, seq uint64) *Entry {
	return &Entry{
		Name:     name,
		Kind:     Folder,
		seq:      seq,
		children: make(map[string]*Entry),
	}
}

// weight is what an entry contributes to its parent's descendant count.
func (e *Entry) weight() int64 {
	if e.Kind == Folder {
		return 1 + e.Descendants
	}
	return 1
}

// Tree owns the root entry of a scan plus the "current directory" cursor.
// It is not safe for concurrent use; a single goroutine owns it.
type Tree struct {
	path    string
	root    *Entry
	current []string
	nextSeq uint64

	failedToRead int64
	spaceFreed   int64
}

// New returns an empty tree rooted at the absolute filesystem path.
func New(path string) *Tree {
	return &Tree{
		path: path,
		root: newFolder(filepath.Base(path), 0),
	}
}

func (t *Tree) seq() uint64 {
	t.nextSeq++
	return t.nextSeq
}

// Insert records a discovered entry. Missing intermediate folders are created
// on demand. Repeated reports for the same path replace the size but are only
// counted once as a descendant.
func (t *Tree) Insert(segments []string, size int64, kind Kind) {
	if len(segments) == 0 {
		return
	}
	if kind == Folder || size < 0 {
		size = 0
	}

	chain := make([]*Entry, 0, len(segments))
	chain = append(chain, t.root)
	node := t.root
	for _, name := range segments[:len(segments)-1] {
		child, ok := node.children[name]
		switch {
		case !ok:
			child = newFolder(name, t.seq())
			node.children[name] = child
			rollup(chain, 0, 1)
		case child.Kind != Folder:
			// A path reported as a file turned out to have children.
			rollup(chain, -child.Size, 0)
			child.Kind = Folder
			child.Size = 0
			child.children = make(map[string]*Entry)
		}
		chain = append(chain, child)
		node = child
	}

	name := segments[len(segments)-1]
	existing, ok := node.children[name]
	if !ok {
		entry := &Entry{Name: name, Kind: kind, Size: size, seq: t.seq()}
		if kind == Folder {
			entry.children = make(map[string]*Entry)
		}
		node.children[name] = entry
		rollup(chain, size, 1)
		return
	}

	switch {
	case existing.Kind == File && kind == File:
		rollup(chain, size-existing.Size, 0)
		existing.Size = size
	case existing.Kind == Folder && kind == Folder:
		// Folder sizes come from their children only.
	case existing.Kind == Folder && kind == File:
		rollup(chain, size-existing.Size, -existing.Descendants)
		existing.Kind = File
		existing.Size = size
		existing.Descendants = 0
		existing.children = nil
	default:
		rollup(chain, -existing.Size, 0)
		existing.Kind = Folder
		existing.Size = 0
		existing.children = make(map[string]*Entry)
	}
}

// rollup applies a size and descendant delta to every entry in chain.
func rollup(chain []*Entry, size, descendants int64) {
	if size == 0 && descendants == 0 {
		return
	}
	for _, e := range chain {
		e.Size += size
		e.Descendants += descendants
	}
}

// Delete removes the entry at segments together with its subtree, and returns
// the number of bytes it accounted for. The current path is truncated if it
// pointed into the removed subtree.
func (t *Tree) Delete(segments []string) (int64, error) {
	if len(segments) == 0 {
		return 0, ErrCannotDeleteRoot
	}
	chain, err := t.chain(segments[:len(segments)-1])
	if err != nil {
		return 0, err
	}
	parent := chain[len(chain)-1]
	name := segments[len(segments)-1]
	removed, ok := parent.children[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", filepath.Join(segments...), ErrNotFound)
	}

	delete(parent.children, name)
	rollup(chain, -removed.Size, -removed.weight())
	t.spaceFreed += removed.Size

	if hasPrefix(t.current, segments) {
		t.current = append([]string(nil), segments[:len(segments)-1]...)
	}
	return removed.Size, nil
}

// chain resolves segments to the list of folders from the root down to the
// last segment, inclusive.
func (t *Tree) chain(segments []string) ([]*Entry, error) {
	chain := make([]*Entry, 0, len(segments)+1)
	chain = append(chain, t.root)
	node := t.root
	for i, name := range segments {
		child, ok := node.children[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", filepath.Join(segments[:i+1]...), ErrNotFound)
		}
		if child.Kind != Folder {
			return nil, fmt.Errorf("%s: %w", filepath.Join(segments[:i+1]...), ErrNotAFolder)
		}
		chain = append(chain, child)
		node = child
	}
	return chain, nil
}

func hasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Enter moves the current path into the named child folder.
func (t *Tree) Enter(name string) error {
	folder := t.currentFolder()
	child, ok := folder.children[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if child.Kind != Folder {
		return fmt.Errorf("%s: %w", name, ErrNotAFolder)
	}
	t.current = append(t.current, name)
	return nil
}

// Leave moves the current path one level up. It reports false when already
// at the scan root.
func (t *Tree) Leave() bool {
	if len(t.current) == 0 {
		return false
	}
	t.current = t.current[:len(t.current)-1]
	return true
}

func (t *Tree) currentFolder() *Entry {
	chain, err := t.chain(t.current)
	if err != nil {
		// Deletion keeps current valid; fall back to the root regardless.
		t.current = nil
		return t.root
	}
	return chain[len(chain)-1]
}

// CurrentChildren returns the immediate children of the current folder in
// discovery order.
func (t *Tree) CurrentChildren() []Entry {
	folder := t.currentFolder()
	children := make([]Entry, 0, len(folder.children))
	for _, child := range folder.children {
		children = append(children, *child)
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].seq < children[j].seq
	})
	return children
}

// CurrentFolder returns a copy of the folder the current path points at.
func (t *Tree) CurrentFolder() Entry {
	return *t.currentFolder()
}

// CurrentPath returns a copy of the current path segments.
func (t *Tree) CurrentPath() []string {
	return append([]string(nil), t.current...)
}

// lookup returns a copy of the entry at segments.
func (t *Tree) lookup(segments []string) (Entry, bool) {
	if len(segments) == 0 {
		return *t.root, true
	}
	chain, err := t.chain(segments[:len(segments)-1])
	if err != nil {
		return Entry{}, false
	}
	child, ok := chain[len(chain)-1].children[segments[len(segments)-1]]
	if !ok {
		return Entry{}, false
	}
	return *child, true
}

// AbsPath joins segments onto the filesystem path of the scan root.
func (t *Tree) AbsPath(segments []string) string {
	return filepath.Join(append([]string{t.path}, segments...)...)
}

func (t *Tree) Path() string            { return t.path }
func (t *Tree) TotalSize() int64        { return t.root.Size }
func (t *Tree) TotalDescendants() int64 { return t.root.Descendants }
func (t *Tree) FailedToRead() int64     { return t.failedToRead }
func (t *Tree) SpaceFreed() int64       { return t.spaceFreed }

// IncrementFailedToRead counts an entry the walker could not stat.
func (t *Tree) IncrementFailedToRead() {
	t.failedToRead++
}
