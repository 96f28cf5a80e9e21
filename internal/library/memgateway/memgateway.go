// Package memgateway provides an in-memory library.Gateway for tests.
//
// It mirrors the document service's semantics closely enough for the
// orchestrators to be tested against it: exact-match folder filtering,
// registry plus document-implied folder listing, matched-count move
// results. Every mutating call is recorded so tests can assert on call
// order and payloads, and failures can be injected per file name or per
// operation.
package memgateway

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/docuvault/internal/docpath"
	"github.com/dalemusser/docuvault/internal/library"
)

// MoveCall records one batch move request.
type MoveCall struct {
	DocumentIDs  []string
	TargetFolder string
}

// UploadCall records one upload request. Content is not retained, only
// its byte count.
type UploadCall struct {
	FileName   string
	Name       string
	FolderPath string
	SizeBytes  int64
}

// Gateway is an in-memory double of the document service.
//
// The zero value is not usable; construct with New. All methods are safe
// for concurrent use.
type Gateway struct {
	mu      sync.Mutex
	nextID  int
	docs    map[string]library.Document
	folders map[string]bool

	// Call recording
	UploadCalls []UploadCall
	MoveCalls   []MoveCall
	CallLog     []string // operation names in invocation order

	// Failure injection. FailUpload is keyed by file name; the others
	// fail every call to their operation while set.
	FailUpload       map[string]error
	FailMove         error
	FailListDocs     error
	FailListFolders  error
	FailCreateFolder error
	FailDelete       error
	FailDownload     error
}

func New() *Gateway {
	return &Gateway{
		docs:       map[string]library.Document{},
		folders:    map[string]bool{},
		FailUpload: map[string]error{},
	}
}

// SeedDocument inserts a document directly, bypassing call recording.
// When the id is empty one is assigned.
func (g *Gateway) SeedDocument(doc library.Document) library.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	if doc.ID == "" {
		g.nextID++
		doc.ID = fmt.Sprintf("doc-%d", g.nextID)
	}
	g.docs[doc.ID] = doc
	return doc
}

// SeedFolder registers a folder path directly, bypassing call recording.
func (g *Gateway) SeedFolder(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.folders[path] = true
}

// Document returns the stored document and whether it exists.
func (g *Gateway) Document(id string) (library.Document, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[id]
	return doc, ok
}

func (g *Gateway) ListDocuments(ctx context.Context, folderPath string) ([]library.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "ListDocuments")

	if g.FailListDocs != nil {
		return nil, g.FailListDocs
	}

	var out []library.Document
	for _, doc := range g.docs {
		if doc.FolderPath == folderPath {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g *Gateway) ListFolders(ctx context.Context) ([]library.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "ListFolders")

	if g.FailListFolders != nil {
		return nil, g.FailListFolders
	}

	seen := map[string]bool{}
	for path := range g.folders {
		addWithAncestors(seen, path)
	}
	for _, doc := range g.docs {
		if doc.FolderPath != "" {
			addWithAncestors(seen, doc.FolderPath)
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]library.Folder, 0, len(paths))
	for _, path := range paths {
		var count int64
		for _, doc := range g.docs {
			if doc.FolderPath == path {
				count++
			}
		}
		out = append(out, library.Folder{Path: path, DocumentCount: count})
	}
	return out, nil
}

func addWithAncestors(seen map[string]bool, path string) {
	segs := docpath.Segments(path)
	for i := 1; i <= len(segs); i++ {
		seen[strings.Join(segs[:i], "/")] = true
	}
}

func (g *Gateway) CreateFolder(ctx context.Context, folderName, createdBy string) (library.Folder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "CreateFolder")

	if g.FailCreateFolder != nil {
		return library.Folder{}, g.FailCreateFolder
	}
	if g.folders[folderName] {
		return library.Folder{}, &library.GatewayError{StatusCode: 409, Message: "folder path already exists"}
	}
	g.folders[folderName] = true
	return library.Folder{Path: folderName, DocumentCount: 0}, nil
}

func (g *Gateway) Upload(ctx context.Context, in library.UploadInput) (library.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "Upload")

	var size int64
	if in.Content != nil {
		n, err := io.Copy(io.Discard, in.Content)
		if err != nil {
			return library.Document{}, err
		}
		size = n
	}
	g.UploadCalls = append(g.UploadCalls, UploadCall{
		FileName:   in.FileName,
		Name:       in.Name,
		FolderPath: in.FolderPath,
		SizeBytes:  size,
	})

	if err, ok := g.FailUpload[in.FileName]; ok {
		return library.Document{}, err
	}

	g.nextID++
	now := time.Now().UTC()
	doc := library.Document{
		ID:           fmt.Sprintf("doc-%d", g.nextID),
		Name:         in.Name,
		SizeBytes:    size,
		Category:     in.Category,
		Description:  in.Description,
		FolderPath:   in.FolderPath,
		IsPublic:     in.IsPublic,
		UploadedBy:   in.UploadedBy,
		UploaderName: in.UploaderName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	g.docs[doc.ID] = doc
	return doc, nil
}

func (g *Gateway) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "Delete")

	if g.FailDelete != nil {
		return g.FailDelete
	}
	if _, ok := g.docs[id]; !ok {
		return &library.GatewayError{StatusCode: 404, Message: "document not found"}
	}
	delete(g.docs, id)
	return nil
}

func (g *Gateway) Download(ctx context.Context, id string) (library.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "Download")

	if g.FailDownload != nil {
		return library.Document{}, g.FailDownload
	}
	doc, ok := g.docs[id]
	if !ok {
		return library.Document{}, &library.GatewayError{StatusCode: 404, Message: "document not found"}
	}
	doc.DownloadCount++
	g.docs[id] = doc
	return doc, nil
}

func (g *Gateway) Move(ctx context.Context, documentIDs []string, targetFolder string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CallLog = append(g.CallLog, "Move")

	ids := append([]string(nil), documentIDs...)
	g.MoveCalls = append(g.MoveCalls, MoveCall{DocumentIDs: ids, TargetFolder: targetFolder})

	if g.FailMove != nil {
		return 0, g.FailMove
	}

	var moved int64
	for _, id := range documentIDs {
		doc, ok := g.docs[id]
		if !ok {
			continue
		}
		doc.FolderPath = targetFolder
		g.docs[id] = doc
		moved++
	}
	return moved, nil
}

var _ library.Gateway = (*Gateway)(nil)
