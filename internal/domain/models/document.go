package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document represents one stored file in the document library.
//
// FolderPath is a "/"-delimited virtual folder path ("" = root). Documents
// reference folders by path string only; there is no foreign key, so folder
// operations never cascade onto documents.
type Document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`    // Display name (defaults to original filename)
	NameCI        string             `bson:"name_ci"` // Case-insensitive for sorting/search
	FileType      string             `bson:"file_type"`
	SizeBytes     int64              `bson:"size_bytes"`
	StoragePath   string             `bson:"storage_path"` // Path in storage backend
	FileURL       string             `bson:"file_url"`     // Public URL clients fetch bytes from
	Category      string             `bson:"category,omitempty"`
	Description   string             `bson:"description,omitempty"`
	FolderPath    string             `bson:"folder_path"` // "" = root
	IsPublic      bool               `bson:"is_public"`
	DownloadCount int64              `bson:"download_count"` // Monotonic, moved only by downloads
	UploadedBy    string             `bson:"uploaded_by"`
	UploaderName  string             `bson:"uploader_name,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// IsInRoot returns true if the document is at the root level (not in any folder).
func (d *Document) IsInRoot() bool {
	return d.FolderPath == ""
}
