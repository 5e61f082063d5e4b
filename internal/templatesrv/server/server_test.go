package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/config"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
	"github.com/campuscms/campuscms/internal/templatesrv/store"
)

type emptyLister struct{}

func (emptyLister) ListLocalTemplates(_ context.Context) ([]cmscommon.Template, apperrors.Error) {
	return nil, nil
}

func newTestServer(t *testing.T) *CampusServer {
	t.Helper()
	cfg := &config.ConfigParam{
		FormatVersion:   config.Version,
		ServerPort:      "8080",
		DefaultTenantID: "main-campus",
	}
	defs := func() [][]byte { return nil }
	rsv := resolver.New(store.New(defs, time.Hour))
	return New(cfg, rsv, emptyLister{}, nil)
}

func TestVersionEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, cmscommon.ServerVersion, gjson.Get(body, "server_version").String())
	assert.Equal(t, cmscommon.APIVersion, gjson.Get(body, "api_version").String())
}

func TestReadyEndpointWithoutPool(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", gjson.Get(rec.Body.String(), "status").String())
}

func TestTemplateRoutesMounted(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Campuscms-Request-Id"))
}
