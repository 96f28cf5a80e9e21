// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	documentsfeature "github.com/dalemusser/docuvault/internal/app/features/documents"
	healthfeature "github.com/dalemusser/docuvault/internal/app/features/health"
	"github.com/dalemusser/docuvault/internal/app/system/apicors"
	"github.com/dalemusser/docuvault/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. DocuVault exposes a cookie-free JSON API,
// so the middleware stack is just timeouts, CORS, and security headers under:
//
//	/documents/*  document and folder management
//	/health/*     health and readiness probes
//	/uploads/*    document content when local storage is configured
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	// With no configured origins the API is open to any origin, which suits a
	// token-free internal deployment; production deployments should set
	// allowed_origins.
	if len(appCfg.AllowedOrigins) > 0 {
		r.Use(apicors.MiddlewareWithOrigins(appCfg.AllowedOrigins...))
	} else {
		r.Use(apicors.Middleware())
	}

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Document and folder management API
	documentsHandler := documentsfeature.NewHandler(deps.MongoDatabase, deps.BlobStorage, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded document content (local storage only)
	// When using local storage, serve blobs from the configured path.
	// S3 deployments serve content through S3/CloudFront URLs instead.
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// 404 catch-all for unmatched routes
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "not found")
	})

	return r, nil
}
