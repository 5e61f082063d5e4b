package apis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
	"github.com/campuscms/campuscms/internal/templatesrv/store"
)

const landingManifest = `
id: 01972c1a-5b20-7f31-9a44-3d61b8a20c11
slug: campus-landing
name: Campus Landing
description: Full landing page with hero and highlights
category: landing
tags:
  - homepage
  - marketing
is_system: true
version: "2026-08-01"
last_updated: "2026-08-01T00:00:00Z"
default_blocks:
  - id: hero
    component_name: HeroSection
    sort_order: 0
    is_visible: true
`

const newsManifest = `
id: 01972c1a-5b21-7a02-8c55-4e72c9b31d22
slug: campus-news
name: Campus News
description: News listing with featured article
category: blog
tags:
  - news
is_system: true
version: "2026-07-15"
last_updated: "2026-07-15T00:00:00Z"
default_blocks:
  - id: feed
    component_name: ArticleFeed
    sort_order: 0
    is_visible: true
  - id: broken
    component_name: "  "
    sort_order: 1
    is_visible: true
`

type fakeLister struct {
	templates []cmscommon.Template
	err       apperrors.Error
}

func (f *fakeLister) ListLocalTemplates(_ context.Context) ([]cmscommon.Template, apperrors.Error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func newTestRouter(t *testing.T, locals LocalTemplateLister) chi.Router {
	t.Helper()
	defs := func() [][]byte {
		return [][]byte{[]byte(landingManifest), []byte(newsManifest)}
	}
	st := store.New(defs, time.Hour)
	r := chi.NewRouter()
	Router(r, resolver.New(st), locals)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListTemplates(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodGet, "/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "#").Int())
	assert.Equal(t, "campus-landing", gjson.Get(body, "0.slug").String())
	assert.Equal(t, "global", gjson.Get(body, "0.source").String())

	rec = doRequest(t, r, http.MethodGet, "/templates?category=blog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, "campus-news", gjson.Get(body, "0.slug").String())

	rec = doRequest(t, r, http.MethodGet, "/templates?search=hero", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, "campus-landing", gjson.Get(body, "0.slug").String())
}

func TestRecentTemplates(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodGet, "/templates/recent?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, "campus-landing", gjson.Get(body, "0.slug").String())

	rec = doRequest(t, r, http.MethodGet, "/templates/recent?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/templates/recent?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGroupedTemplates(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodGet, "/templates/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "landing.#").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "blog.#").Int())
	assert.True(t, gjson.Get(body, "general").Exists())
	assert.Equal(t, int64(0), gjson.Get(body, "general.#").Int())
}

func TestMergedTemplates(t *testing.T) {
	local := cmscommon.Template{
		ID:   uuid.New(),
		Slug: "dept-physics",
		Name: "Physics Department",
	}
	r := newTestRouter(t, &fakeLister{templates: []cmscommon.Template{local}})

	rec := doRequest(t, r, http.MethodGet, "/templates/merged", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(3), gjson.Get(body, "#").Int())
	assert.Equal(t, "campus-landing", gjson.Get(body, "0.slug").String())
	assert.Equal(t, "dept-physics", gjson.Get(body, "2.slug").String())
	assert.Equal(t, "local", gjson.Get(body, "2.source").String())

	rec = doRequest(t, r, http.MethodGet, "/templates/merged?include_global=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, "dept-physics", gjson.Get(body, "0.slug").String())

	rec = doRequest(t, r, http.MethodGet, "/templates/merged?include_global=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMergedTemplatesLocalFailure(t *testing.T) {
	lister := &fakeLister{err: apperrors.New("datastore unavailable")}
	r := newTestRouter(t, lister)

	rec := doRequest(t, r, http.MethodGet, "/templates/merged", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "#").Int())
}

func TestTemplateCounts(t *testing.T) {
	local := cmscommon.Template{
		ID:   uuid.New(),
		Slug: "dept-physics",
		Name: "Physics Department",
	}
	r := newTestRouter(t, &fakeLister{templates: []cmscommon.Template{local}})

	rec := doRequest(t, r, http.MethodGet, "/templates/counts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "global").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "local").Int())
	assert.Equal(t, int64(3), gjson.Get(body, "total").Int())
}

func TestSearchTemplates(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodPost, "/templates/search", `{"query":"news","system_only":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, "campus-news", gjson.Get(body, "0.slug").String())

	rec = doRequest(t, r, http.MethodPost, "/templates/search", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidateCache(t *testing.T) {
	calls := 0
	defs := func() [][]byte {
		calls++
		return [][]byte{[]byte(landingManifest)}
	}
	st := store.New(defs, time.Hour)
	r := chi.NewRouter()
	Router(r, resolver.New(st), &fakeLister{})

	doRequest(t, r, http.MethodGet, "/templates", "")
	doRequest(t, r, http.MethodGet, "/templates", "")
	assert.Equal(t, 1, calls)

	rec := doRequest(t, r, http.MethodPost, "/templates/cache/invalidate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "invalidated", gjson.Get(rec.Body.String(), "status").String())

	doRequest(t, r, http.MethodGet, "/templates", "")
	assert.Equal(t, 2, calls)
}

func TestGetTemplateByID(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodGet, "/templates/01972c1a-5b20-7f31-9a44-3d61b8a20c11", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "campus-landing", gjson.Get(rec.Body.String(), "slug").String())

	rec = doRequest(t, r, http.MethodGet, "/templates/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/templates/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTemplateBySlug(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodGet, "/templates/slug/campus-news", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Campus News", gjson.Get(rec.Body.String(), "name").String())

	rec = doRequest(t, r, http.MethodGet, "/templates/slug/no-such-slug", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateTemplate(t *testing.T) {
	r := newTestRouter(t, &fakeLister{})

	rec := doRequest(t, r, http.MethodGet, "/templates/01972c1a-5b20-7f31-9a44-3d61b8a20c11/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "valid").Bool())
	assert.Equal(t, int64(0), gjson.Get(body, "missing.#").Int())

	rec = doRequest(t, r, http.MethodGet, "/templates/01972c1a-5b21-7a02-8c55-4e72c9b31d22/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.False(t, gjson.Get(body, "valid").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "missing.#").Int())
	assert.Contains(t, gjson.Get(body, "missing.0").String(), "broken")
}
