// Package workspace composes the gateway, navigator, selection set, and
// orchestrators into one browsing view over the document hierarchy.
package workspace

import (
	"context"
	"strings"

	"github.com/dalemusser/docuvault/internal/docpath"
	"github.com/dalemusser/docuvault/internal/library"
	"github.com/dalemusser/docuvault/internal/library/mover"
	"github.com/dalemusser/docuvault/internal/library/navigator"
	"github.com/dalemusser/docuvault/internal/library/uploader"
)

// Workspace models one view onto the document hierarchy: the current
// folder, the cached listing for it, and the selection feeding bulk
// moves.
//
// A failed gateway call never clears the cached listing; the view keeps
// showing the last-known-good state and the error is returned to the
// caller for messaging.
//
// Workspace is not safe for concurrent use. It models a single view
// whose actions happen one at a time; the orchestrators underneath guard
// against overlapping mutations from other goroutines.
type Workspace struct {
	gw  library.Gateway
	nav *navigator.Navigator
	sel *mover.SelectionSet
	mv  *mover.Mover
	up  *uploader.Uploader

	documents []library.Document // documents in the current folder
	folders   []library.Folder   // the full folder registry listing
}

// Option configures the Workspace's upload behavior.
type Option func(*options)

type options struct {
	uploaderOpts []uploader.Option
}

// WithUploaderOptions forwards options to the upload orchestrator.
func WithUploaderOptions(opts ...uploader.Option) Option {
	return func(o *options) {
		o.uploaderOpts = append(o.uploaderOpts, opts...)
	}
}

func New(gw library.Gateway, opts ...Option) *Workspace {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Workspace{
		gw:  gw,
		nav: navigator.New(),
		sel: mover.NewSelection(),
		mv:  mover.New(gw),
		up:  uploader.New(gw, o.uploaderOpts...),
	}
}

// Current returns the current folder path, "" meaning root.
func (w *Workspace) Current() string {
	return w.nav.Current()
}

// Breadcrumbs returns the current path's segments in order.
func (w *Workspace) Breadcrumbs() []string {
	return w.nav.Breadcrumbs()
}

// Documents returns the cached documents of the current folder.
func (w *Workspace) Documents() []library.Document {
	return w.documents
}

// Folders returns the folders directly under the current folder, from
// the cached registry listing.
func (w *Workspace) Folders() []library.Folder {
	return w.nav.VisibleFolders(w.folders)
}

// Selection exposes the selection set for checkbox-style toggling.
func (w *Workspace) Selection() *mover.SelectionSet {
	return w.sel
}

// Refresh re-fetches the current folder's documents and the folder
// registry. On failure the previous listing stays in place.
func (w *Workspace) Refresh(ctx context.Context) error {
	docs, err := w.gw.ListDocuments(ctx, w.nav.Current())
	if err != nil {
		return err
	}
	folders, err := w.gw.ListFolders(ctx)
	if err != nil {
		return err
	}
	w.documents = docs
	w.folders = folders
	return nil
}

// Open navigates into a folder, clears the selection, and refreshes.
func (w *Workspace) Open(ctx context.Context, path string) error {
	w.nav.Open(path)
	w.sel.Clear()
	return w.Refresh(ctx)
}

// Up navigates to the parent folder, clears the selection, and
// refreshes. At the root it stays at the root.
func (w *Workspace) Up(ctx context.Context) error {
	w.nav.GoUp()
	w.sel.Clear()
	return w.Refresh(ctx)
}

// CreateFolder validates the name, creates a folder under the current
// path, and refreshes. The name must be a single segment: no slashes,
// trimmed, non-empty.
func (w *Workspace) CreateFolder(ctx context.Context, name, createdBy string) (library.Folder, error) {
	name = strings.TrimSpace(name)
	if err := docpath.ValidateName(name); err != nil {
		return library.Folder{}, &library.ValidationError{Field: "folderName", Reason: err.Error()}
	}

	path := docpath.Join(w.nav.Current(), name)
	folder, err := w.gw.CreateFolder(ctx, path, createdBy)
	if err != nil {
		return library.Folder{}, err
	}

	if err := w.Refresh(ctx); err != nil {
		return folder, err
	}
	return folder, nil
}

// Upload sends a batch of files into the current folder and refreshes.
// Progress may be nil. On a mid-batch failure the documents created
// before it are returned alongside the error; they are not rolled back.
func (w *Workspace) Upload(ctx context.Context, batch uploader.Batch, progress uploader.ProgressFunc) ([]library.Document, error) {
	batch.FolderPath = w.nav.Current()
	docs, err := w.up.Upload(ctx, batch, progress)
	if err != nil {
		// Documents that landed before the failure are already on the
		// server; try to show them.
		if len(docs) > 0 {
			_ = w.Refresh(ctx)
		}
		return docs, err
	}
	if err := w.Refresh(ctx); err != nil {
		return docs, err
	}
	return docs, nil
}

// MoveSelection moves every selected document to targetFolder in one
// batch request, then clears the selection and refreshes. The returned
// count is gateway-reported and may be less than the selection size.
func (w *Workspace) MoveSelection(ctx context.Context, targetFolder string) (int64, error) {
	moved, err := w.mv.MoveSelection(ctx, w.sel, targetFolder)
	if err != nil {
		return 0, err
	}
	w.sel.Clear()
	if err := w.Refresh(ctx); err != nil {
		return moved, err
	}
	return moved, nil
}

// DropOnFolder handles the drag-and-drop gesture: the dragged document
// becomes a singleton selection moved through the same batch operation
// as MoveSelection, so both affordances produce identical requests.
func (w *Workspace) DropOnFolder(ctx context.Context, documentID, targetFolder string) (int64, error) {
	moved, err := w.mv.Move(ctx, []string{documentID}, targetFolder)
	if err != nil {
		return 0, err
	}
	w.sel.Remove(documentID)
	if err := w.Refresh(ctx); err != nil {
		return moved, err
	}
	return moved, nil
}

// Delete removes a document and refreshes.
func (w *Workspace) Delete(ctx context.Context, documentID string) error {
	if err := w.gw.Delete(ctx, documentID); err != nil {
		return err
	}
	w.sel.Remove(documentID)
	return w.Refresh(ctx)
}

// Download bumps the document's download counter and reconciles the
// cached entry with the updated record. The caller fetches the bytes
// from the returned document's FileURL.
func (w *Workspace) Download(ctx context.Context, documentID string) (library.Document, error) {
	doc, err := w.gw.Download(ctx, documentID)
	if err != nil {
		return library.Document{}, err
	}
	for i := range w.documents {
		if w.documents[i].ID == doc.ID {
			w.documents[i] = doc
			break
		}
	}
	return doc, nil
}
