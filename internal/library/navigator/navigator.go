// Package navigator tracks the current folder of a browsing view and
// derives what is visible from it.
package navigator

import (
	"github.com/dalemusser/docuvault/internal/docpath"
	"github.com/dalemusser/docuvault/internal/library"
)

// Navigator holds the current folder path. The zero value starts at the
// root. Navigator knows nothing about selections; callers that pair it
// with a selection set are responsible for clearing the selection when
// the current folder changes.
type Navigator struct {
	current string
}

func New() *Navigator {
	return &Navigator{}
}

// Current returns the current folder path, "" meaning root.
func (n *Navigator) Current() string {
	return n.current
}

// Open sets the current folder. The path is not checked for existence:
// opening a path with no documents and no registered folder entry is
// legal and yields an empty view.
func (n *Navigator) Open(path string) {
	n.current = path
}

// GoUp moves to the parent folder. At the root it stays at the root.
func (n *Navigator) GoUp() {
	n.current = docpath.Parent(n.current)
}

// Breadcrumbs returns the segments of the current path in order. At the
// root it returns an empty slice.
func (n *Navigator) Breadcrumbs() []string {
	return docpath.Segments(n.current)
}

// VisibleFolders filters all to the direct children of the current
// folder. At the root that means top-level folders.
func (n *Navigator) VisibleFolders(all []library.Folder) []library.Folder {
	var out []library.Folder
	for _, f := range all {
		if n.current == docpath.Root {
			if docpath.IsTopLevel(f.Path) {
				out = append(out, f)
			}
			continue
		}
		if docpath.IsDirectChild(f.Path, n.current) {
			out = append(out, f)
		}
	}
	return out
}

// VisibleDocuments filters all to documents whose folder path equals the
// current folder exactly. Documents in sub-folders are not visible from
// the parent's view.
func (n *Navigator) VisibleDocuments(all []library.Document) []library.Document {
	var out []library.Document
	for _, d := range all {
		if d.FolderPath == n.current {
			out = append(out, d)
		}
	}
	return out
}
