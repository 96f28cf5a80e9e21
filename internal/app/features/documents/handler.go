// Package documents provides the document management JSON API.
//
// Endpoints:
//   - GET    /documents?folderPath=<path> - list documents in one folder
//   - GET    /documents/folders           - list folders with document counts
//   - POST   /documents/folders           - create a folder
//   - POST   /documents/upload            - upload one document (multipart)
//   - DELETE /documents/{id}              - delete one document
//   - GET    /documents/download?id=<id>  - count a download
//   - POST   /documents/move              - move documents to another folder
package documents

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/docuvault/internal/app/store/document"
	"github.com/dalemusser/docuvault/internal/app/store/folder"
	"github.com/dalemusser/docuvault/internal/app/store/receipt"
	"github.com/dalemusser/docuvault/internal/app/system/jsonutil"
	"github.com/dalemusser/docuvault/internal/docpath"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const maxUploadSize = 64 << 20 // 64MB

// Handler handles document API requests.
type Handler struct {
	documentStore *document.Store
	folderStore   *folder.Store
	receiptStore  *receipt.Store
	blobStorage   storage.Store
	logger        *zap.Logger
}

// NewHandler creates a new documents Handler.
func NewHandler(db *mongo.Database, blobStorage storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		documentStore: document.New(db),
		folderStore:   folder.New(db),
		receiptStore:  receipt.New(db),
		blobStorage:   blobStorage,
		logger:        logger,
	}
}

// checkFolderPath rejects folder paths with empty, untrimmed, or
// slash-bearing segments. The empty path (root) is allowed.
func checkFolderPath(value any) error {
	path, _ := value.(string)
	if path == docpath.Root {
		return nil
	}
	segs := docpath.Segments(path)
	if len(segs) == 0 || strings.Join(segs, "/") != path {
		return errors.New("must be a /-delimited path with non-empty segments")
	}
	for _, seg := range segs {
		if err := docpath.ValidateName(seg); err != nil {
			return err
		}
		if seg != strings.TrimSpace(seg) {
			return errors.New("segments must not have leading or trailing whitespace")
		}
	}
	return nil
}

// list handles GET /documents?folderPath=<path>.
// An omitted or empty folderPath lists root documents only.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	folderPath := r.URL.Query().Get("folderPath")
	if err := checkFolderPath(folderPath); err != nil {
		jsonutil.BadRequest(w, "folderPath "+err.Error())
		return
	}

	sortOrder := 1
	if r.URL.Query().Get("order") == "desc" {
		sortOrder = -1
	}
	opts := document.ListOptions{
		SortBy:    r.URL.Query().Get("sort"),
		SortOrder: sortOrder,
		Category:  r.URL.Query().Get("category"),
		Search:    r.URL.Query().Get("q"),
	}
	if limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && limit > 0 {
		opts.Limit = limit
		if page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && page > 0 {
			opts.Page = page
		}
	}

	docs, err := h.documentStore.ListByFolderPath(ctx, folderPath, opts)
	if err != nil {
		h.logger.Error("failed to list documents",
			zap.String("folder_path", folderPath),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to list documents")
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}

	h.logger.Debug("documents listed",
		zap.String("folder_path", folderPath),
		zap.Int("count", len(out)))

	jsonutil.OK(w, out)
}

// listFolders handles GET /documents/folders.
//
// The listing is the union of the explicit folder registry and every path
// implied by document membership (including ancestors). Each entry carries
// the count of documents whose folder_path matches it exactly, so a folder
// whose documents all live in subfolders reports zero.
func (h *Handler) listFolders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registered, err := h.folderStore.List(ctx)
	if err != nil {
		h.logger.Error("failed to list folder registry", zap.Error(err))
		jsonutil.InternalError(w, "failed to list folders")
		return
	}

	implied, err := h.documentStore.ImpliedFolderPaths(ctx)
	if err != nil {
		h.logger.Error("failed to derive folder paths", zap.Error(err))
		jsonutil.InternalError(w, "failed to list folders")
		return
	}

	seen := map[string]struct{}{}
	for _, f := range registered {
		// A registered path implies its ancestors too.
		segs := docpath.Segments(f.Path)
		for i := 1; i <= len(segs); i++ {
			seen[strings.Join(segs[:i], "/")] = struct{}{}
		}
	}
	for _, p := range implied {
		seen[p] = struct{}{}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]FolderResponse, 0, len(paths))
	for _, p := range paths {
		count, err := h.documentStore.CountByFolderPath(ctx, p)
		if err != nil {
			h.logger.Error("failed to count folder documents",
				zap.String("path", p),
				zap.Error(err))
			jsonutil.InternalError(w, "failed to list folders")
			return
		}
		out = append(out, FolderResponse{Path: p, DocumentCount: count})
	}

	jsonutil.OK(w, out)
}

type createFolderRequest struct {
	FolderName string `json:"folderName"`
	CreatedBy  string `json:"createdBy"`
}

func (req createFolderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FolderName, validation.Required, validation.By(checkFolderPath)),
		validation.Field(&req.CreatedBy, validation.Required),
	)
}

// createFolder handles POST /documents/folders.
func (h *Handler) createFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createFolderRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	created, err := h.folderStore.Create(ctx, folder.CreateInput{
		Path:      req.FolderName,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, folder.ErrDuplicatePath) {
			jsonutil.Conflict(w, "folder already exists")
			return
		}
		h.logger.Error("failed to create folder",
			zap.String("path", req.FolderName),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to create folder")
		return
	}

	h.logger.Debug("folder created",
		zap.String("path", created.Path),
		zap.String("created_by", created.CreatedBy))

	jsonutil.Created(w, FolderResponse{Path: created.Path, DocumentCount: 0})
}

// upload handles POST /documents/upload (multipart form: file, name,
// description, uploadedBy, uploaderName, isPublic, category, folderPath).
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonutil.BadRequest(w, "file too large or malformed multipart body")
		return
	}

	uploadedFile, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "file field is required")
		return
	}
	defer uploadedFile.Close()

	folderPath := r.FormValue("folderPath")
	if err := checkFolderPath(folderPath); err != nil {
		jsonutil.BadRequest(w, "folderPath "+err.Error())
		return
	}

	uploadedBy := strings.TrimSpace(r.FormValue("uploadedBy"))
	if uploadedBy == "" {
		jsonutil.BadRequest(w, "uploadedBy field is required")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = FileTypeCategory(contentType)
	}

	// Storage path: documents/YYYY/MM/uuid8.ext
	now := time.Now().UTC()
	ext := filepath.Ext(header.Filename)
	uniqueName := fmt.Sprintf("%s%s", uuid.New().String()[:8], ext)
	storagePath := fmt.Sprintf("documents/%04d/%02d/%s", now.Year(), int(now.Month()), uniqueName)

	// Receipt first, so a crash between blob write and record create leaves
	// a trace the sweep job can act on.
	rcpt, err := h.receiptStore.Open(ctx, storagePath, name)
	if err != nil {
		h.logger.Error("failed to open upload receipt", zap.Error(err))
		jsonutil.InternalError(w, "failed to store file")
		return
	}

	if err := h.blobStorage.Put(ctx, storagePath, uploadedFile, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.logger.Error("failed to store file",
			zap.String("path", storagePath),
			zap.Error(err))
		if err := h.receiptStore.Close(ctx, rcpt.ID); err != nil {
			h.logger.Warn("failed to close upload receipt", zap.Error(err))
		}
		jsonutil.InternalError(w, "failed to store file")
		return
	}

	created, err := h.documentStore.Create(ctx, document.CreateInput{
		Name:         name,
		FileType:     contentType,
		SizeBytes:    header.Size,
		StoragePath:  storagePath,
		FileURL:      h.blobStorage.URL(storagePath),
		Category:     category,
		Description:  strings.TrimSpace(r.FormValue("description")),
		FolderPath:   folderPath,
		IsPublic:     r.FormValue("isPublic") == "true",
		UploadedBy:   uploadedBy,
		UploaderName: strings.TrimSpace(r.FormValue("uploaderName")),
	})
	if err != nil {
		// Clean up the blob on DB error
		if derr := h.blobStorage.Delete(ctx, storagePath); derr != nil {
			h.logger.Warn("failed to clean up blob after record failure",
				zap.String("path", storagePath),
				zap.Error(derr))
		}
		if cerr := h.receiptStore.Close(ctx, rcpt.ID); cerr != nil {
			h.logger.Warn("failed to close upload receipt", zap.Error(cerr))
		}
		h.logger.Error("failed to create document record", zap.Error(err))
		jsonutil.InternalError(w, "failed to save document record")
		return
	}

	if err := h.receiptStore.Close(ctx, rcpt.ID); err != nil {
		h.logger.Warn("failed to close upload receipt",
			zap.String("path", storagePath),
			zap.Error(err))
	}

	h.logger.Debug("document uploaded",
		zap.String("id", created.ID.Hex()),
		zap.String("name", created.Name),
		zap.String("folder_path", created.FolderPath),
		zap.Int64("size_bytes", created.SizeBytes))

	jsonutil.Created(w, toDocumentResponse(created))
}

// delete handles DELETE /documents/{id}.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid document id")
		return
	}

	doc, err := h.documentStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "document not found")
			return
		}
		h.logger.Error("failed to fetch document", zap.Error(err))
		jsonutil.InternalError(w, "failed to delete document")
		return
	}

	if err := h.blobStorage.Delete(ctx, doc.StoragePath); err != nil {
		h.logger.Warn("failed to delete blob",
			zap.String("path", doc.StoragePath),
			zap.Error(err))
		// Continue with DB deletion anyway
	}

	if err := h.documentStore.Delete(ctx, id); err != nil {
		h.logger.Error("failed to delete document record",
			zap.String("id", id.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to delete document")
		return
	}

	h.logger.Debug("document deleted",
		zap.String("id", id.Hex()),
		zap.String("name", doc.Name))

	jsonutil.NoContent(w)
}

// download handles GET /documents/download?id=<id>.
//
// Increments the download counter and returns the updated record. The file
// bytes themselves are fetched from the record's fileUrl, not through this
// endpoint.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid document id")
		return
	}

	doc, err := h.documentStore.IncrementDownloads(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "document not found")
			return
		}
		h.logger.Error("failed to count download",
			zap.String("id", id.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to count download")
		return
	}

	h.logger.Debug("download counted",
		zap.String("id", id.Hex()),
		zap.Int64("download_count", doc.DownloadCount))

	jsonutil.OK(w, toDocumentResponse(doc))
}

type moveRequest struct {
	DocumentIDs  []string `json:"documentIds"`
	TargetFolder string   `json:"targetFolder"`
}

func (req moveRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DocumentIDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.TargetFolder, validation.By(checkFolderPath)),
	)
}

// move handles POST /documents/move with {documentIds, targetFolder}.
// One batch update; the response's movedCount may be less than the request
// size when some ids are stale.
func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req moveRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := req.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.DocumentIDs))
	for _, s := range req.DocumentIDs {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			jsonutil.BadRequest(w, "invalid document id: "+s)
			return
		}
		ids = append(ids, id)
	}

	moved, err := h.documentStore.MoveMany(ctx, ids, req.TargetFolder)
	if err != nil {
		h.logger.Error("failed to move documents",
			zap.Int("requested", len(ids)),
			zap.String("target_folder", req.TargetFolder),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to move documents")
		return
	}

	h.logger.Debug("documents moved",
		zap.Int("requested", len(ids)),
		zap.Int64("moved", moved),
		zap.String("target_folder", req.TargetFolder))

	jsonutil.OK(w, map[string]int64{"movedCount": moved})
}
