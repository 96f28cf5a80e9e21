// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/docuvault/internal/app/store/receipt"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// StaleReceiptSweepJob creates a job that removes orphaned upload blobs.
//
// Every upload writes a receipt before the blob and clears it once the
// document record exists. A receipt older than gracePeriod means the record
// never landed, so the blob is unreachable and can be deleted.
func StaleReceiptSweepJob(receipts *receipt.Store, blobs storage.Store, logger *zap.Logger, gracePeriod time.Duration) Job {
	return Job{
		Name:     "stale-receipt-sweep",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().Add(-gracePeriod)

			stale, err := receipts.ListStale(ctx, cutoff)
			if err != nil {
				return err
			}

			var swept int
			for _, r := range stale {
				if err := blobs.Delete(ctx, r.StoragePath); err != nil {
					// The blob write may never have happened. Clear the
					// receipt anyway so it does not pile up.
					logger.Warn("orphaned blob delete failed",
						zap.String("storage_path", r.StoragePath),
						zap.String("file_name", r.FileName),
						zap.Error(err))
				}
				if err := receipts.Close(ctx, r.ID); err != nil {
					logger.Error("stale receipt delete failed",
						zap.String("storage_path", r.StoragePath),
						zap.Error(err))
					continue
				}
				swept++
			}

			if swept > 0 {
				logger.Info("swept stale upload receipts",
					zap.Int("count", swept),
					zap.Duration("grace_period", gracePeriod))
			}
			return nil
		},
	}
}
