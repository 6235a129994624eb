// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/mavendb/mavend/internal/server/handlers"
	"github.com/mavendb/mavend/internal/server/ipgeo"
	"github.com/mavendb/mavend/internal/server/ratelimit"
)

// Config carries the server-wide settings the router needs.
type Config struct {
	// AdminSecret signs and verifies admin bearer tokens.
	AdminSecret []byte
	// Build is reported by the health and admin endpoints.
	Build handlers.BuildInfo
	// RateLimits configures the per-IP token buckets.
	RateLimits *ratelimit.Config
	// IPGeo enriches access logs with country codes. May be nil.
	IPGeo *ipgeo.Checker
}

// NewRouter creates and configures the HTTP router.
func NewRouter(svc *handlers.Services, cfg *Config) http.Handler {
	mux := &http.ServeMux{}

	ah := handlers.NewArtifactHandler(svc.DB)
	hh := handlers.NewHealthHandler(cfg.Build.Version)
	admh := handlers.NewAdminHandler(svc.DB, cfg.Build)
	dh := handlers.NewDocsHandler()

	// Status endpoints
	mux.Handle("GET /{$}", Wrap(ah.Root))
	mux.Handle("GET /api/{$}", Wrap(ah.APIRoot))
	mux.Handle("GET /api/health", Wrap(hh.Health))

	// Artifact lookups
	mux.Handle("GET /api/file/{file_name}", Wrap(ah.GetFile))
	mux.Handle("GET /api/filelastmodified/{file_name}", Wrap(ah.FileLastModified))
	mux.Handle("GET /api/gav", Wrap(ah.List))
	mux.Handle("GET /api/gav/{group_id}/{artifact_id}/{artifact_version}", Wrap(ah.GetGAV))

	// Upgrade queries
	mux.Handle("GET /api/fileupgrade/{file_name}", Wrap(ah.FileUpgrade))
	mux.Handle("GET /api/gavupgrade/{group_id}/{artifact_id}/{artifact_version}", Wrap(ah.GAVUpgrade))

	// Admin endpoints
	mux.Handle("GET /api/admin/stats", WrapAdmin(admh.Stats, cfg.AdminSecret))

	// Documentation surface
	mux.HandleFunc("GET /docs", dh.ServeIndex)
	mux.HandleFunc("GET /docs/{$}", dh.ServeIndex)
	mux.HandleFunc("GET /docs/openapi.yaml", dh.ServeOpenAPI)
	mux.HandleFunc("GET /docs/schema.json", dh.ServeSchema)

	var h http.Handler = mux
	h = RateLimitMiddleware(cfg.RateLimits)(h)
	h = AccessLogMiddleware(cfg.IPGeo)(h)
	return h
}
