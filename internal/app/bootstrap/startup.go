// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/docuvault/internal/app/store/receipt"
	"github.com/dalemusser/docuvault/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. For DocuVault that
// means starting the background task runner that sweeps abandoned upload
// receipts.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// Remove blobs whose uploads never completed once they pass the
	// configured grace period.
	receiptStore := receipt.New(deps.MongoDatabase)
	taskRunner.Register(tasks.StaleReceiptSweepJob(receiptStore, deps.BlobStorage, logger, appCfg.ReceiptGracePeriod))

	taskRunner.Start()
}
