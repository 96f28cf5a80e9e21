package documents

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the document API endpoints.
//
// When mounted at /documents:
//   - GET    /documents               - list documents in one folder
//   - GET    /documents/folders       - list folders
//   - POST   /documents/folders       - create a folder
//   - POST   /documents/upload        - upload a document
//   - DELETE /documents/{id}          - delete a document
//   - GET    /documents/download      - count a download
//   - POST   /documents/move          - batch-move documents
//
// CORS is applied by the caller so deployments can choose between the
// permissive and origin-pinned variants.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.list)
	r.Get("/folders", h.listFolders)
	r.Post("/folders", h.createFolder)
	r.Post("/upload", h.upload)
	r.Delete("/{id}", h.delete)
	r.Get("/download", h.download)
	r.Post("/move", h.move)

	return r
}
