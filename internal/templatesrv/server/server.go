// Package server assembles the template service HTTP surface: middleware,
// the template API routes, and the version and readiness endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/httpx"
	"github.com/campuscms/campuscms/internal/common/middleware"
	"github.com/campuscms/campuscms/internal/templatesrv/apis"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/config"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dbmanager"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
)

// CampusServer is the top-level HTTP server for the template service.
type CampusServer struct {
	Router *chi.Mux
	pool   *dbmanager.Pool
}

// New creates the server and mounts all routes.
func New(cfg *config.ConfigParam, rsv *resolver.Resolver, locals apis.LocalTemplateLister, pool *dbmanager.Pool) *CampusServer {
	s := &CampusServer{
		Router: chi.NewRouter(),
		pool:   pool,
	}

	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	s.Router.Use(tenantContext(cmscommon.TenantID(cfg.DefaultTenantID)))
	if cfg.HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	s.Router.Get("/version", s.versionHandler)
	s.Router.Get("/ready", s.readyHandler)

	apis.Router(s.Router, rsv, locals)

	return s
}

// tenantContext stamps every request with the deployment's institution
// identifier so datastore reads are scoped correctly.
func tenantContext(tenantID cmscommon.TenantID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := cmscommon.WithTenantID(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *CampusServer) versionHandler(w http.ResponseWriter, r *http.Request) {
	httpx.SendJSONRsp(r.Context(), w, http.StatusOK, map[string]string{
		"server_version": cmscommon.ServerVersion,
		"api_version":    cmscommon.APIVersion,
	})
}

func (s *CampusServer) readyHandler(w http.ResponseWriter, r *http.Request) {
	if s.pool != nil {
		if err := s.pool.DB().PingContext(r.Context()); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("datastore not reachable")
			httpx.SendJSONRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	httpx.SendJSONRsp(r.Context(), w, http.StatusOK, map[string]string{"status": "ready"})
}
