// Package tree models the repository's directory hierarchy used for
// proximity queries.
//
// The tree is built once from a snapshot's file list and is read-only
// afterwards; concurrent queries against the same tree are safe as long as
// nobody mutates it.
package tree

import (
	"prox/internal/paths"
)

// File is a leaf entry owned by a directory.
type File struct {
	// Name is the base name, the identity used for neighbor deduplication
	Name string
	// Path is the canonical repo-relative path
	Path string
}

// Dir is a node in the directory tree. Parent is nil for the root.
// Children and Files preserve insertion order.
type Dir struct {
	Name     string
	Path     string // canonical repo-relative path, "" for root
	Parent   *Dir
	Children []*Dir
	Files    []File
}

// child returns the named subdirectory, creating it if needed.
func (d *Dir) child(name, path string) *Dir {
	for _, c := range d.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Dir{Name: name, Path: path, Parent: d}
	d.Children = append(d.Children, c)
	return c
}

// Tree is a directory hierarchy with O(1) directory lookup by path.
type Tree struct {
	root     *Dir
	dirs     map[string]*Dir
	numFiles int
}

// Build constructs a tree from canonical repo-relative file paths.
// Paths should already be normalized (forward slashes, no leading slash);
// ordering of files and directories follows input order.
func Build(filePaths []string) *Tree {
	root := &Dir{Name: "", Path: ""}
	t := &Tree{
		root: root,
		dirs: map[string]*Dir{"": root},
	}

	for _, p := range filePaths {
		segs := paths.Segments(p)
		if len(segs) == 0 {
			continue
		}

		dir := root
		dirPath := ""
		for _, seg := range segs[:len(segs)-1] {
			if dirPath == "" {
				dirPath = seg
			} else {
				dirPath = dirPath + "/" + seg
			}
			dir = dir.child(seg, dirPath)
			t.dirs[dirPath] = dir
		}

		dir.Files = append(dir.Files, File{Name: segs[len(segs)-1], Path: p})
		t.numFiles++
	}

	return t
}

// Root returns the root directory.
func (t *Tree) Root() *Dir {
	return t.root
}

// Dir looks up a directory by canonical path ("" for root).
func (t *Tree) Dir(path string) (*Dir, bool) {
	d, ok := t.dirs[paths.Normalize(path)]
	return d, ok
}

// Containing returns the directory that owns the given file path,
// or false if the file is not part of the tree.
func (t *Tree) Containing(filePath string) (*Dir, bool) {
	d, ok := t.dirs[paths.Parent(filePath)]
	if !ok {
		return nil, false
	}
	name := paths.Base(filePath)
	for _, f := range d.Files {
		if f.Name == name {
			return d, true
		}
	}
	return nil, false
}

// NumDirs returns the number of directories, including the root.
func (t *Tree) NumDirs() int {
	return len(t.dirs)
}

// NumFiles returns the number of files in the tree.
func (t *Tree) NumFiles() int {
	return t.numFiles
}
