package tasks_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/docuvault/internal/app/store/receipt"
	"github.com/dalemusser/docuvault/internal/app/system/tasks"
	"github.com/dalemusser/docuvault/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestStaleReceiptSweepJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	receipts := receipt.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	blobs, err := storage.NewLocal(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/uploads",
	})
	if err != nil {
		t.Fatalf("storage.NewLocal() error = %v", err)
	}

	// Orphaned blob: receipt opened, blob written, record never created.
	orphan, err := receipts.Open(ctx, "documents/orphan.pdf", "orphan.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := blobs.Put(ctx, "documents/orphan.pdf", strings.NewReader("orphan"), &storage.PutOptions{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Age the receipt past the grace period.
	db.Collection("upload_receipts").FindOneAndUpdate(ctx,
		bson.M{"_id": orphan.ID},
		bson.M{"$set": bson.M{"created_at": time.Now().Add(-2 * time.Hour)}},
	)

	// A fresh receipt must survive the sweep.
	fresh, err := receipts.Open(ctx, "documents/fresh.pdf", "fresh.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	job := tasks.StaleReceiptSweepJob(receipts, blobs, zap.NewNop(), time.Hour)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("sweep job error = %v", err)
	}

	// The orphaned blob and its receipt are gone.
	if _, err := blobs.Get(ctx, "documents/orphan.pdf"); err == nil {
		t.Error("orphaned blob should have been deleted")
	}
	stale, _ := receipts.ListStale(ctx, time.Now().Add(-90*time.Minute))
	if len(stale) != 0 {
		t.Errorf("stale receipt count after sweep = %d, want 0", len(stale))
	}

	// The fresh receipt is untouched.
	remaining, _ := receipts.ListStale(ctx, time.Now().Add(time.Minute))
	if len(remaining) != 1 || remaining[0].ID != fresh.ID {
		t.Errorf("fresh receipt should survive the sweep, got %d receipts", len(remaining))
	}
}
