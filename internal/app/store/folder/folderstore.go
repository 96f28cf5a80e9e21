// Package folder provides storage for the document folder registry.
//
// Folders are keyed by their full path ("finance/reports"). An entry in the
// registry means the folder exists even when no document lives in it.
package folder

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/docuvault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicatePath is returned by Create when the path is already registered.
var ErrDuplicatePath = errors.New("folder path already exists")

// Store provides access to the document_folders collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new folder store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("document_folders"),
	}
}

// CreateInput contains the input for registering a folder.
type CreateInput struct {
	Path      string
	CreatedBy string
}

// Create registers a folder path. Registering a path that already exists
// returns ErrDuplicatePath.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Folder, error) {
	exists, err := s.PathExists(ctx, input.Path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePath
	}

	folder := models.Folder{
		ID:        primitive.NewObjectID(),
		Path:      input.Path,
		PathCI:    text.Fold(input.Path),
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now(),
	}

	if _, err := s.c.InsertOne(ctx, folder); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePath
		}
		return nil, err
	}

	return &folder, nil
}

// GetByPath retrieves a folder registry entry by its exact path.
func (s *Store) GetByPath(ctx context.Context, path string) (*models.Folder, error) {
	var folder models.Folder
	if err := s.c.FindOne(ctx, bson.M{"path": path}).Decode(&folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// PathExists reports whether a folder path is registered.
func (s *Store) PathExists(ctx context.Context, path string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"path": path})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all registered folder paths, sorted.
func (s *Store) List(ctx context.Context) ([]models.Folder, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "path", Value: 1}})

	cursor, err := s.c.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}

	return folders, nil
}
