// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup. Each ensure* function is idempotent,
// and errors are aggregated so startup can fail fast with everything
// that went wrong.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureDocuments(ctx, db); err != nil {
		problems = append(problems, "documents: "+err.Error())
	}
	if err := ensureDocumentFolders(ctx, db); err != nil {
		problems = append(problems, "document_folders: "+err.Error())
	}
	if err := ensureUploadReceipts(ctx, db); err != nil {
		problems = append(problems, "upload_receipts: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexInfo struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func (i indexInfo) unique() bool { return i.Unique != nil && *i.Unique }

// keySig renders a key document as a stable string so two indexes can
// be compared by key pattern regardless of name.
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ",")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]indexInfo, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]indexInfo{}
	for cur.Next(ctx) {
		var idx indexInfo
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// Collection may not exist yet; proceed with creates.
		existing = map[string]indexInfo{}
	}

	var errs []string
	for _, m := range models {
		if err := ensureOne(ctx, coll, m, existing); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func ensureOne(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, existing map[string]indexInfo) error {
	name := ""
	wantUnique := false
	if m.Options != nil {
		if m.Options.Name != nil {
			name = *m.Options.Name
		}
		if m.Options.Unique != nil {
			wantUnique = *m.Options.Unique
		}
	}
	sig := keySig(m.Keys.(bson.D))
	start := time.Now()

	if ex, ok := existing[sig]; ok {
		if ex.unique() == wantUnique {
			zap.L().Debug("index already present",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
			return nil
		}
		// Uniqueness changed; drop the old index and recreate below.
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			return fmt.Errorf("%s(%s): drop failed: %w", coll.Name(), name, err)
		}
	}

	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if wantUnique && isDuplicateKeyErr(err) {
			return fmt.Errorf("%s(%s): cannot create unique index, duplicates present", coll.Name(), name)
		}
		return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
	}

	zap.L().Info("index ensured",
		zap.String("collection", coll.Name()),
		zap.String("name", name),
		zap.String("keys", sig),
		zap.Bool("unique", wantUnique),
		zap.Duration("took", time.Since(start)))
	return nil
}

// isDuplicateKeyErr is a best-effort check that also covers DocumentDB,
// which does not always surface typed write exceptions.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "e11000") || strings.Contains(s, "duplicate key")
}

func ensureDocuments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("documents")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Folder listing, sorted by name. Not unique: moving a document into
		// a folder that already holds one with the same name must not fail.
		{
			Keys: bson.D{
				{Key: "folder_path", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_doc_folder_name"),
		},
		// Folder listing, sorted by date
		{
			Keys: bson.D{
				{Key: "folder_path", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_doc_folder_created"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
			},
			Options: options.Index().SetName("idx_doc_category"),
		},
	})
}

func ensureDocumentFolders(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("document_folders")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One registry entry per path
		{
			Keys: bson.D{
				{Key: "path", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_folder_path"),
		},
	})
}

func ensureUploadReceipts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("upload_receipts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Stale-receipt sweep scans by age
		{
			Keys: bson.D{
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_receipt_created"),
		},
	})
}
