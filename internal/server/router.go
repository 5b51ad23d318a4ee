// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/monitorbizz/monitorbizz/internal/server/dto"
	"github.com/monitorbizz/monitorbizz/internal/server/handlers"
	"github.com/monitorbizz/monitorbizz/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router. The returned closer
// stops the rate limiters' background cleanup.
//
// Routes under /api/v1/tenants/{tenantID}/ only serve the tenant named by
// the bearer token.
func NewRouter(svc *handlers.Services, cfg *handlers.Config) (http.Handler, func()) {
	rl := cfg.RateLimits
	limiters := ratelimit.NewLimiters(rl.AuthRatePerMin, rl.WriteRatePerMin, rl.ReadRatePerMin)

	mux := &http.ServeMux{}
	hh := handlers.NewHealthHandler(cfg)
	ah := handlers.NewAuthHandler(svc.Registry, cfg.JWTSecret)
	ch := &handlers.CatalogHandler{}
	rh := handlers.NewRecordHandler(svc.Store)
	sh := handlers.NewSettingsHandler(svc.Store)
	dh := handlers.NewDashboardHandler(svc.Dashboard)

	// Health check
	mux.Handle("GET /api/health", Wrap(hh.Health, cfg, limiters))

	// Auth endpoints
	mux.Handle("POST /api/v1/auth/signup", Wrap(ah.Signup, cfg, limiters))
	mux.Handle("POST /api/v1/auth/login", Wrap(ah.Login, cfg, limiters))
	mux.Handle("POST /api/v1/auth/logout", WrapAuth(ah.Logout, svc, cfg, limiters))
	mux.Handle("GET /api/v1/auth/me", WrapAuth(ah.Me, svc, cfg, limiters))

	// Catalog endpoints
	mux.Handle("GET /api/v1/services", Wrap(ch.ListServices, cfg, limiters))
	mux.Handle("GET /api/v1/collections", Wrap(ch.ListCollections, cfg, limiters))
	mux.Handle("GET /api/v1/collections/{collection}/schema", Wrap(ch.Schema, cfg, limiters))

	// Tenant data endpoints
	mux.Handle("GET /api/v1/tenants/{tenantID}/collections/{collection}", WrapTenant(rh.List, svc, cfg, limiters))
	mux.Handle("POST /api/v1/tenants/{tenantID}/collections/{collection}", WrapTenant(rh.Create, svc, cfg, limiters))
	mux.Handle("PUT /api/v1/tenants/{tenantID}/collections/{collection}/{id}", WrapTenant(rh.Update, svc, cfg, limiters))
	mux.Handle("DELETE /api/v1/tenants/{tenantID}/collections/{collection}/{id}", WrapTenant(rh.Delete, svc, cfg, limiters))
	mux.Handle("GET /api/v1/tenants/{tenantID}/settings", WrapTenant(sh.Get, svc, cfg, limiters))
	mux.Handle("PUT /api/v1/tenants/{tenantID}/settings", WrapTenant(sh.Update, svc, cfg, limiters))
	mux.Handle("GET /api/v1/tenants/{tenantID}/dashboard", WrapTenant(dh.Get, svc, cfg, limiters))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, dto.NotFound("endpoint"))
	})
	return logRequests(mux), limiters.Close
}
