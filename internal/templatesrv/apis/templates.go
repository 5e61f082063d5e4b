package apis

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/httpx"
	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
)

func (h *Handler) listTemplates(r *http.Request) (*httpx.Response, error) {
	opts := resolver.ListOptions{
		Category: cmscommon.TemplateCategory(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("search"),
	}
	templates := h.resolver.GetAll(r.Context(), opts)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   templates,
	}, nil
}

func (h *Handler) recentTemplates(r *http.Request) (*httpx.Response, error) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, ErrInvalidLimit.Msg("limit must be a non-negative integer")
		}
		limit = n
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   h.resolver.GetRecent(r.Context(), limit),
	}, nil
}

func (h *Handler) groupedTemplates(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   h.resolver.GroupByCategory(r.Context()),
	}, nil
}

// mergedTemplates returns the institution's local templates merged with
// the global set. include_global=false narrows the listing to local
// templates only.
func (h *Handler) mergedTemplates(r *http.Request) (*httpx.Response, error) {
	includeGlobal := true
	if raw := r.URL.Query().Get("include_global"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, httpx.ErrInvalidRequest("include_global must be a boolean")
		}
		includeGlobal = v
	}

	local, err := h.locals.ListLocalTemplates(r.Context())
	if err != nil {
		// Degrade to the global set rather than failing the listing.
		log.Ctx(r.Context()).Error().Err(err).Msg("local template load failed, serving global only")
		local = nil
	}

	merged := h.resolver.Merge(r.Context(), local, includeGlobal)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   merged,
	}, nil
}

func (h *Handler) templateCounts(r *http.Request) (*httpx.Response, error) {
	local, err := h.locals.ListLocalTemplates(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("local template load failed, counting global only")
		local = nil
	}
	merged := h.resolver.Merge(r.Context(), local, true)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   resolver.CountBySource(merged),
	}, nil
}

func (h *Handler) searchTemplates(r *http.Request) (*httpx.Response, error) {
	var filter resolver.SearchFilter
	if err := httpx.GetRequestData(r, &filter); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   h.resolver.Search(r.Context(), filter),
	}, nil
}

func (h *Handler) invalidateCache(r *http.Request) (*httpx.Response, error) {
	h.resolver.Invalidate()
	log.Ctx(r.Context()).Info().Msg("template cache invalidated")
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"status": "invalidated"},
	}, nil
}

func (h *Handler) getTemplateBySlug(r *http.Request) (*httpx.Response, error) {
	slug := chi.URLParam(r, "templateSlug")
	tmpl, err := h.resolver.GetBySlug(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   tmpl,
	}, nil
}

func (h *Handler) getTemplateByID(r *http.Request) (*httpx.Response, error) {
	id, err := uuid.Parse(chi.URLParam(r, "templateID"))
	if err != nil {
		return nil, ErrInvalidTemplateID.Err(err)
	}
	tmpl, apperr := h.resolver.GetByID(r.Context(), id)
	if apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   tmpl,
	}, nil
}

// validateTemplate reports blocks whose component name is missing. The
// check is shape-only; resolving names against the live component
// registry belongs to the UI layer.
func (h *Handler) validateTemplate(r *http.Request) (*httpx.Response, error) {
	id, err := uuid.Parse(chi.URLParam(r, "templateID"))
	if err != nil {
		return nil, ErrInvalidTemplateID.Err(err)
	}
	tmpl, apperr := h.resolver.GetByID(r.Context(), id)
	if apperr != nil {
		return nil, apperr
	}
	missing := resolver.ValidateComponents(*tmpl)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: map[string]any{
			"valid":   len(missing) == 0,
			"missing": missing,
		},
	}, nil
}
