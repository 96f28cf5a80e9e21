package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is a registry entry for a virtual folder, identified solely by its
// "/"-delimited path string. Folders exist independently of document
// membership: an explicitly created folder is listed even with zero documents.
//
// Path is always non-empty for a folder entity; the root is not a folder.
type Folder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Path      string             `bson:"path"`
	PathCI    string             `bson:"path_ci"` // Case-insensitive for uniqueness/sorting
	CreatedBy string             `bson:"created_by"`
	CreatedAt time.Time          `bson:"created_at"`
}
