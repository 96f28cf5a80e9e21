// Package document provides storage for document records.
package document

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/docuvault/internal/app/store/storeutil"
	"github.com/dalemusser/docuvault/internal/docpath"
	"github.com/dalemusser/docuvault/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the documents collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new document store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("documents"),
	}
}

// CreateInput contains the input for creating a document record.
type CreateInput struct {
	Name         string
	FileType     string
	SizeBytes    int64
	StoragePath  string
	FileURL      string
	Category     string
	Description  string
	FolderPath   string
	IsPublic     bool
	UploadedBy   string
	UploaderName string
}

// Create creates a new document record.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Document, error) {
	now := time.Now()
	doc := models.Document{
		ID:           primitive.NewObjectID(),
		Name:         input.Name,
		NameCI:       text.Fold(input.Name),
		FileType:     input.FileType,
		SizeBytes:    input.SizeBytes,
		StoragePath:  input.StoragePath,
		FileURL:      input.FileURL,
		Category:     input.Category,
		Description:  input.Description,
		FolderPath:   input.FolderPath,
		IsPublic:     input.IsPublic,
		UploadedBy:   input.UploadedBy,
		UploaderName: input.UploaderName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// GetByID retrieves a document by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var doc models.Document
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateInput contains the input for updating a document.
type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	IsPublic    *bool
}

// Update updates a document's metadata.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{"updated_at": time.Now()}

	if input.Name != nil {
		set["name"] = *input.Name
		set["name_ci"] = text.Fold(*input.Name)
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.IsPublic != nil {
		set["is_public"] = *input.IsPublic
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Delete deletes a document record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListOptions contains options for listing documents.
type ListOptions struct {
	SortBy    string // "name", "created_at", "size", "file_type"
	SortOrder int    // 1 = asc, -1 = desc
	Category  string // Filter by category label
	Search    string // Filter by document name
	Limit     int64  // Page size; 0 returns everything
	Page      int64  // 1-based page number, used only when Limit > 0
}

// ListByFolderPath returns the documents whose folder_path equals path
// exactly. Documents in descendant folders are not included; pass "" for
// documents at the root.
func (s *Store) ListByFolderPath(ctx context.Context, path string, opts ListOptions) ([]models.Document, error) {
	filter := bson.M{"folder_path": path}

	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Search != "" {
		filter["name_ci"] = bson.M{"$regex": text.Fold(opts.Search)}
	}

	sortField := "name_ci"
	switch opts.SortBy {
	case "created_at", "date":
		sortField = "created_at"
	case "size":
		sortField = "size_bytes"
	case "file_type", "type":
		sortField = "file_type"
	}

	sortOrder := 1
	if opts.SortOrder != 0 {
		sortOrder = opts.SortOrder
	}

	findOpts := options.Find().SetSort(bson.D{{Key: sortField, Value: sortOrder}})
	if opts.Limit > 0 {
		findOpts = storeutil.PaginateSorted(opts.Limit, opts.Page, sortField, sortOrder)
	}

	cursor, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

// CountByFolderPath returns the number of documents whose folder_path equals
// path exactly.
func (s *Store) CountByFolderPath(ctx context.Context, path string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"folder_path": path})
}

// MoveMany sets the folder_path of every listed document to targetPath in a
// single update. Returns the number of documents matched, which may be less
// than len(ids) when some ids are stale.
func (s *Store) MoveMany(ctx context.Context, ids []primitive.ObjectID, targetPath string) (int64, error) {
	result, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{
			"folder_path": targetPath,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

// IncrementDownloads atomically increments a document's download counter and
// returns the updated record.
func (s *Store) IncrementDownloads(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.Document
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"download_count": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImpliedFolderPaths returns every folder path implied by document
// membership: each document's folder_path plus all of its ancestor paths.
// Root-level documents imply no folders. The result is sorted and
// duplicate-free.
func (s *Store) ImpliedFolderPaths(ctx context.Context) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "folder_path", bson.M{"folder_path": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, v := range raw {
		path, ok := v.(string)
		if !ok || path == "" {
			continue
		}
		// A document at a/b/c implies folders a, a/b, and a/b/c.
		segs := docpath.Segments(path)
		for i := 1; i <= len(segs); i++ {
			seen[strings.Join(segs[:i], "/")] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// NameExistsInFolder checks if a document with the given name exists in the
// folder. Pass excludeID to exclude a specific document (useful for updates).
func (s *Store) NameExistsInFolder(ctx context.Context, name, folderPath string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"folder_path": folderPath,
		"name_ci":     text.Fold(name),
	}

	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}

	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
