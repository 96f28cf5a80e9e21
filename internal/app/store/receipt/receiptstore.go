// Package receipt provides storage for upload receipts.
package receipt

import (
	"context"
	"time"

	"github.com/dalemusser/docuvault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the upload_receipts collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new receipt store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("upload_receipts"),
	}
}

// Open records that a blob is about to be written to storagePath.
func (s *Store) Open(ctx context.Context, storagePath, fileName string) (*models.UploadReceipt, error) {
	r := models.UploadReceipt{
		ID:          primitive.NewObjectID(),
		StoragePath: storagePath,
		FileName:    fileName,
		CreatedAt:   time.Now(),
	}

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return nil, err
	}

	return &r, nil
}

// Close clears a receipt after the document record has been created.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListStale returns receipts created before the cutoff. These mark blobs
// whose document record never landed.
func (s *Store) ListStale(ctx context.Context, cutoff time.Time) ([]models.UploadReceipt, error) {
	cursor, err := s.c.Find(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var receipts []models.UploadReceipt
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, err
	}

	return receipts, nil
}
