// Package resolver is the query surface over the template store: list,
// lookup, search, grouping, and the merge of global templates with an
// institution's local templates. All operations are synchronous derive
// pipelines over the store's in-memory list; nothing here mutates shared
// state except through the store's own Load and Invalidate.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/store"
)

// Resolver answers template queries against a Store.
type Resolver struct {
	store *store.Store
}

// New creates a Resolver over the given store.
func New(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Invalidate clears the underlying store cache.
func (r *Resolver) Invalidate() {
	r.store.Invalidate()
}

// ListOptions narrows GetAll. A zero value returns everything.
type ListOptions struct {
	Category cmscommon.TemplateCategory
	Search   string
}

// GetAll returns the global templates, optionally filtered by exact
// category match and then by free-text search. Order is the store's load
// order.
func (r *Resolver) GetAll(ctx context.Context, opts ListOptions) []cmscommon.Template {
	list := r.store.Load(ctx)

	if opts.Category != "" {
		filtered := make([]cmscommon.Template, 0, len(list))
		for _, t := range list {
			if t.Category == opts.Category {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	if opts.Search != "" {
		filtered := make([]cmscommon.Template, 0, len(list))
		for _, t := range list {
			if matchesQuery(t, opts.Search) {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	return list
}

// matchesQuery reports whether the query appears, case-insensitively, in
// the template's name, description, slug, or any tag. Substring match, not
// tokenized.
func matchesQuery(t cmscommon.Template, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Slug), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// GetByID returns the first global template with the given id, or
// ErrTemplateNotFound.
func (r *Resolver) GetByID(ctx context.Context, id uuid.UUID) (*cmscommon.Template, apperrors.Error) {
	for _, t := range r.GetAll(ctx, ListOptions{}) {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrTemplateNotFound.Msg(fmt.Sprintf("no template with id %s", id))
}

// GetBySlug returns the first global template with the given slug, or
// ErrTemplateNotFound. Duplicate slugs never reach this path; the store
// rejects them at load time.
func (r *Resolver) GetBySlug(ctx context.Context, slug string) (*cmscommon.Template, apperrors.Error) {
	for _, t := range r.GetAll(ctx, ListOptions{}) {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, ErrTemplateNotFound.Msg(fmt.Sprintf("no template with slug %q", slug))
}

// Merge combines externally supplied local templates with the global set.
// Every local template missing a source tag is tagged local. When
// includeGlobal is set, the full global list precedes the local ones;
// within each group the incoming order is preserved. A failed global load
// degrades to local-only because the store returns an empty list rather
// than an error.
func (r *Resolver) Merge(ctx context.Context, local []cmscommon.Template, includeGlobal bool) []cmscommon.Template {
	var merged []cmscommon.Template
	if includeGlobal {
		merged = append(merged, r.store.Load(ctx)...)
	}
	for _, t := range local {
		if t.Source == "" {
			t.Source = cmscommon.TemplateSourceLocal
		}
		merged = append(merged, t)
	}
	if merged == nil {
		merged = []cmscommon.Template{}
	}
	return merged
}

// FilterBySource keeps only templates with the given provenance. Pure
// filter; no loading involved.
func FilterBySource(templates []cmscommon.Template, source cmscommon.TemplateSource) []cmscommon.Template {
	out := make([]cmscommon.Template, 0, len(templates))
	for _, t := range templates {
		if t.Source == source {
			out = append(out, t)
		}
	}
	return out
}

// SourceCounts aggregates template counts by provenance.
type SourceCounts struct {
	Global int `json:"global"`
	Local  int `json:"local"`
	Total  int `json:"total"`
}

// CountBySource counts templates by provenance. Pure aggregation.
func CountBySource(templates []cmscommon.Template) SourceCounts {
	c := SourceCounts{Total: len(templates)}
	for _, t := range templates {
		switch t.Source {
		case cmscommon.TemplateSourceGlobal:
			c.Global++
		case cmscommon.TemplateSourceLocal:
			c.Local++
		}
	}
	return c
}

// GroupByCategory buckets the global templates into one list per known
// category. A template with a missing or unknown category lands in the
// general bucket; no template is ever dropped.
func (r *Resolver) GroupByCategory(ctx context.Context) map[cmscommon.TemplateCategory][]cmscommon.Template {
	groups := make(map[cmscommon.TemplateCategory][]cmscommon.Template, len(cmscommon.KnownCategories()))
	for _, c := range cmscommon.KnownCategories() {
		groups[c] = []cmscommon.Template{}
	}
	for _, t := range r.GetAll(ctx, ListOptions{}) {
		c := t.Category
		if !c.Known() {
			c = cmscommon.CategoryGeneral
		}
		groups[c] = append(groups[c], t)
	}
	return groups
}

// SearchFilter composes the narrowing filters of Search. Zero-valued
// fields are not applied.
type SearchFilter struct {
	Query      string                     `json:"query,omitempty"`
	Category   cmscommon.TemplateCategory `json:"category,omitempty"`
	Tags       []string                   `json:"tags,omitempty"`
	SystemOnly bool                       `json:"system_only,omitempty"`
}

// Search applies the filters left to right, each narrowing the previous
// result set: free-text query, exact category, tag match-any, and the
// system flag. A tags filter that matches nothing yields an empty set.
func (r *Resolver) Search(ctx context.Context, f SearchFilter) []cmscommon.Template {
	list := r.GetAll(ctx, ListOptions{Search: f.Query})

	if f.Category != "" {
		filtered := make([]cmscommon.Template, 0, len(list))
		for _, t := range list {
			if t.Category == f.Category {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	if len(f.Tags) > 0 {
		filtered := make([]cmscommon.Template, 0, len(list))
		for _, t := range list {
			if hasAnyTag(t, f.Tags) {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	if f.SystemOnly {
		filtered := make([]cmscommon.Template, 0, len(list))
		for _, t := range list {
			if t.IsSystem {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	return list
}

func hasAnyTag(t cmscommon.Template, tags []string) bool {
	for _, want := range tags {
		for _, have := range t.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// GetRecent returns up to limit templates ordered by last update, most
// recent first. Ties keep their load order (stable sort).
func (r *Resolver) GetRecent(ctx context.Context, limit int) []cmscommon.Template {
	if limit <= 0 {
		return []cmscommon.Template{}
	}
	all := r.GetAll(ctx, ListOptions{})
	recent := make([]cmscommon.Template, len(all))
	copy(recent, all)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastUpdated.After(recent[j].LastUpdated)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// ValidateComponents scans a template's blocks for missing component
// names, returning a placeholder label per offending block. It does not
// check names against a live component registry; that resolution belongs
// to the UI layer and would need the registry injected here.
func ValidateComponents(t cmscommon.Template) []string {
	var missing []string
	for i, b := range t.DefaultBlocks {
		if strings.TrimSpace(b.ComponentName) == "" {
			label := b.ID
			if label == "" {
				label = fmt.Sprintf("position %d", i)
			}
			missing = append(missing, fmt.Sprintf("unnamed component (%s)", label))
		}
	}
	return missing
}
