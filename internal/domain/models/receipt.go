package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadReceipt marks a blob write that has not yet been matched by a
// document record. A receipt is written before the blob goes to storage and
// cleared once the document record exists; receipts that outlive the grace
// period point at orphaned blobs.
type UploadReceipt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	StoragePath string             `bson:"storage_path"`
	FileName    string             `bson:"file_name"`
	CreatedAt   time.Time          `bson:"created_at"`
}
