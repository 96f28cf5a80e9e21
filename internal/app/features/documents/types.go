package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/docuvault/internal/domain/models"
)

// DocumentResponse is the wire shape of a document record.
type DocumentResponse struct {
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

// FolderResponse is the wire shape of a folder listing entry.
type FolderResponse struct {
	Path          string `json:"path"`
	DocumentCount int64  `json:"documentCount"`
}

func toDocumentResponse(d *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		FileType:      d.FileType,
		Size:          FormatFileSize(d.SizeBytes),
		SizeBytes:     d.SizeBytes,
		FileURL:       d.FileURL,
		Category:      d.Category,
		Description:   d.Description,
		FolderPath:    d.FolderPath,
		IsPublic:      d.IsPublic,
		DownloadCount: d.DownloadCount,
		UploadedBy:    d.UploadedBy,
		UploaderName:  d.UploaderName,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// FormatFileSize formats a file size in bytes to a human-readable string.
func FormatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FileTypeCategory maps a MIME type to a coarse category label. Used as the
// default category when the uploader supplies none.
func FileTypeCategory(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	case contentType == "application/pdf":
		return "pdf"
	case strings.Contains(contentType, "spreadsheet") || strings.Contains(contentType, "excel"):
		return "spreadsheet"
	case strings.Contains(contentType, "presentation") || strings.Contains(contentType, "powerpoint"):
		return "presentation"
	case strings.Contains(contentType, "document") || strings.Contains(contentType, "word"):
		return "document"
	case strings.Contains(contentType, "zip") || strings.Contains(contentType, "compressed") || strings.Contains(contentType, "archive"):
		return "archive"
	default:
		return "file"
	}
}
