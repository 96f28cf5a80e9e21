// Package library is the client core for the DocuVault document service.
//
// It defines the Gateway contract the orchestrators depend on, the wire
// types shared with the service, and the error taxonomy. Concrete gateways
// live in the client (HTTP) and memgateway (in-memory) subpackages.
package library

import (
	"context"
	"io"
	"time"
)

// Document is the wire shape of a document record as returned by the
// document service.
type Document struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	FileType      string    `json:"fileType"`
	Size          string    `json:"size"`
	SizeBytes     int64     `json:"sizeBytes"`
	FileURL       string    `json:"fileUrl"`
	Category      string    `json:"category,omitempty"`
	Description   string    `json:"description,omitempty"`
	FolderPath    string    `json:"folderPath"`
	IsPublic      bool      `json:"isPublic"`
	DownloadCount int64     `json:"downloadCount"`
	UploadedBy    string    `json:"uploadedBy"`
	UploaderName  string    `json:"uploaderName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Folder is the wire shape of a folder listing entry. DocumentCount is the
// number of documents whose folder path equals Path exactly, not including
// documents in descendant folders.
type Folder struct {
	Path          string `json:"path"`
	DocumentCount int64  `json:"documentCount"`
}

// UploadInput carries one file and its metadata to the upload endpoint.
type UploadInput struct {
	FileName     string    // original filename, used as the multipart part name
	Content      io.Reader // file bytes
	Name         string    // display name for the created document
	Description  string
	Category     string
	FolderPath   string // "" targets the root
	IsPublic     bool
	UploadedBy   string
	UploaderName string
}

// Gateway is the document service contract the orchestrators call.
//
// ListDocuments filters by exact folder path equality; "" lists root-only
// documents. Move returns the gateway-reported moved count, which may be
// less than the number of ids requested when some ids are stale. Download
// increments the document's download counter and returns the updated
// record; the file bytes themselves are fetched from Document.FileURL.
type Gateway interface {
	ListDocuments(ctx context.Context, folderPath string) ([]Document, error)
	ListFolders(ctx context.Context) ([]Folder, error)
	CreateFolder(ctx context.Context, folderName, createdBy string) (Folder, error)
	Upload(ctx context.Context, in UploadInput) (Document, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (Document, error)
	Move(ctx context.Context, documentIDs []string, targetFolder string) (int64, error)
}
