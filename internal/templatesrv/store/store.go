// Package store loads the global template definitions, validates their
// minimal shape, and serves them from a time-boxed in-process cache. The
// store never fails a caller: invalid definitions are skipped and a total
// load failure yields an empty list.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"sigs.k8s.io/yaml"

	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
)

// Clock abstracts time so cache expiry is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var validate = validator.New()

// DefinitionsFunc supplies the raw template manifests in registration
// order. A nil entry counts as an invalid definition.
type DefinitionsFunc func() [][]byte

// Store holds the loaded global templates and the load timestamp. The
// cache is process-local; in a multi-instance deployment each instance
// converges independently as its window expires.
type Store struct {
	mu          sync.RWMutex
	definitions DefinitionsFunc
	ttl         time.Duration
	clock       Clock

	entries  []cmscommon.Template
	loadedAt time.Time
	loaded   bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a clock. Used by tests to control cache expiry.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates a Store over the given definitions with the given cache
// expiry window.
func New(definitions DefinitionsFunc, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		definitions: definitions,
		ttl:         ttl,
		clock:       systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current list of valid global templates. Within the
// expiry window the cached list is returned unchanged; otherwise every
// registered definition is re-parsed and re-validated, and the cache is
// replaced even if the accepted list is empty. A total load failure is
// logged and returns an empty list, leaving the existing cache untouched.
// Callers must treat the returned slice as read-only.
func (s *Store) Load(ctx context.Context) []cmscommon.Template {
	s.mu.RLock()
	if s.loaded && s.clock.Now().Sub(s.loadedAt) < s.ttl {
		entries := s.entries
		s.mu.RUnlock()
		return entries
	}
	s.mu.RUnlock()

	entries, ok := s.loadAll(ctx)
	if !ok {
		return []cmscommon.Template{}
	}

	s.mu.Lock()
	s.entries = entries
	s.loadedAt = s.clock.Now()
	s.loaded = true
	s.mu.Unlock()

	return entries
}

// Invalidate clears the cache unconditionally, forcing the next Load to
// re-read the definitions. Idempotent.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.entries = nil
	s.loadedAt = time.Time{}
	s.loaded = false
	s.mu.Unlock()
}

// loadAll parses and validates every registered definition. Individual
// rejects are skipped with a warning. ok is false only on a total failure.
func (s *Store) loadAll(ctx context.Context) (list []cmscommon.Template, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Error().Interface("panic", r).Msg("global template load failed")
			list, ok = nil, false
		}
	}()

	defs := s.definitions()
	seenSlugs := make(map[string]bool, len(defs))
	list = make([]cmscommon.Template, 0, len(defs))

	for i, raw := range defs {
		if raw == nil {
			log.Ctx(ctx).Warn().Int("index", i).Msg("skipping unreadable template definition")
			continue
		}
		jsonDoc, err := yaml.YAMLToJSON(raw)
		if err != nil {
			log.Ctx(ctx).Warn().Int("index", i).Err(err).Msg("skipping unparseable template definition")
			continue
		}
		var tmpl cmscommon.Template
		if err := json.Unmarshal(jsonDoc, &tmpl); err != nil {
			log.Ctx(ctx).Warn().Int("index", i).Err(err).Msg("skipping malformed template definition")
			continue
		}
		if err := validate.Struct(tmpl); err != nil {
			log.Ctx(ctx).Warn().Int("index", i).Err(err).Msg("skipping template definition missing required fields")
			continue
		}
		if seenSlugs[tmpl.Slug] {
			log.Ctx(ctx).Warn().Str("slug", tmpl.Slug).Msg("skipping template definition with duplicate slug")
			continue
		}
		seenSlugs[tmpl.Slug] = true
		tmpl.Source = cmscommon.TemplateSourceGlobal
		list = append(list, tmpl)
	}

	return list, true
}
