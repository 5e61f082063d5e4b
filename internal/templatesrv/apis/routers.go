// Package apis exposes the template resolution API over HTTP. Handlers
// are thin: parse the request, call the resolver, and hand the result to
// httpx. Local templates come from the datastore through the
// LocalTemplateLister interface so the handlers stay testable without a
// database.
package apis

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/common/httpx"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
)

// LocalTemplateLister reads the institution's local templates. Implemented
// by the postgresql store.
type LocalTemplateLister interface {
	ListLocalTemplates(ctx context.Context) ([]cmscommon.Template, apperrors.Error)
}

// Handler carries the dependencies of the template API.
type Handler struct {
	resolver *resolver.Resolver
	locals   LocalTemplateLister
}

type responseHandlerParam struct {
	method  string
	path    string
	handler httpx.RequestHandler
}

// Router mounts the template API routes.
func Router(r chi.Router, rsv *resolver.Resolver, locals LocalTemplateLister) {
	h := &Handler{resolver: rsv, locals: locals}

	routes := []responseHandlerParam{
		{http.MethodGet, "/templates", h.listTemplates},
		{http.MethodGet, "/templates/recent", h.recentTemplates},
		{http.MethodGet, "/templates/categories", h.groupedTemplates},
		{http.MethodGet, "/templates/merged", h.mergedTemplates},
		{http.MethodGet, "/templates/counts", h.templateCounts},
		{http.MethodPost, "/templates/search", h.searchTemplates},
		{http.MethodPost, "/templates/cache/invalidate", h.invalidateCache},
		{http.MethodGet, "/templates/slug/{templateSlug}", h.getTemplateBySlug},
		{http.MethodGet, "/templates/{templateID}", h.getTemplateByID},
		{http.MethodGet, "/templates/{templateID}/validate", h.validateTemplate},
	}

	for _, route := range routes {
		r.Method(route.method, route.path, httpx.WrapHTTPRsp(route.handler))
	}
}
