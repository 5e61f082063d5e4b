package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

const manifestA = `
id: 01972c1a-5b20-7f31-9a44-3d61b8a20c11
slug: alpha
name: Alpha
category: landing
default_blocks:
  - id: hero
    component_name: HeroSection
    sort_order: 0
    is_visible: true
`

const manifestB = `
id: 01972c1a-8d02-7c55-b1f0-58e02c9d4e22
slug: beta
name: Beta
category: content
`

const manifestMissingName = `
id: 01972c1a-9f13-7a07-8cc2-71d3ea5b6f33
slug: gamma
`

const manifestDuplicateSlug = `
id: 01972c1a-b24e-7d89-a3b1-94f5cc8d7a44
slug: alpha
name: Alpha Again
`

func staticDefs(docs ...string) DefinitionsFunc {
	return func() [][]byte {
		out := make([][]byte, 0, len(docs))
		for _, d := range docs {
			out = append(out, []byte(d))
		}
		return out
	}
}

func TestLoadCachesWithinWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	calls := 0
	defs := func() [][]byte {
		calls++
		return [][]byte{[]byte(manifestA), []byte(manifestB)}
	}
	s := New(defs, time.Hour, WithClock(clock))

	first := s.Load(ctx)
	require.Len(t, first, 2)
	assert.Equal(t, 1, calls)

	clock.Advance(30 * time.Minute)
	second := s.Load(ctx)
	assert.Equal(t, 1, calls, "cached load must not re-read definitions")
	assert.Equal(t, first, second)

	clock.Advance(31 * time.Minute)
	third := s.Load(ctx)
	assert.Equal(t, 2, calls, "expired cache must re-read definitions")
	assert.Len(t, third, 2)
}

func TestInvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	calls := 0
	defs := func() [][]byte {
		calls++
		return [][]byte{[]byte(manifestA)}
	}
	s := New(defs, time.Hour, WithClock(clock))

	s.Load(ctx)
	s.Invalidate()
	s.Load(ctx)
	assert.Equal(t, 2, calls)

	// Idempotent: a second invalidate on an empty cache is harmless.
	s.Invalidate()
	s.Invalidate()
	s.Load(ctx)
	assert.Equal(t, 3, calls)
}

func TestLoadSkipsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	s := New(staticDefs(manifestA, manifestMissingName, manifestB), time.Hour)

	got := s.Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Slug)
	assert.Equal(t, "beta", got[1].Slug)
}

func TestLoadSkipsUnparseableAndNilEntries(t *testing.T) {
	ctx := context.Background()
	defs := func() [][]byte {
		return [][]byte{[]byte(manifestA), nil, []byte("{not: [valid")}
	}
	s := New(defs, time.Hour)

	got := s.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Slug)
}

func TestLoadSkipsDuplicateSlugs(t *testing.T) {
	ctx := context.Background()
	s := New(staticDefs(manifestA, manifestDuplicateSlug), time.Hour)

	got := s.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name, "first registration wins")
}

func TestLoadNormalizesSource(t *testing.T) {
	ctx := context.Background()
	s := New(staticDefs(manifestA, manifestB), time.Hour)

	for _, tmpl := range s.Load(ctx) {
		assert.Equal(t, cmscommon.TemplateSourceGlobal, tmpl.Source)
	}
}

func TestLoadTotalFailureReturnsEmptyAndKeepsCache(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	failing := false
	defs := func() [][]byte {
		if failing {
			panic("definitions unavailable")
		}
		return [][]byte{[]byte(manifestA)}
	}
	s := New(defs, time.Hour, WithClock(clock))

	first := s.Load(ctx)
	require.Len(t, first, 1)

	clock.Advance(2 * time.Hour)
	failing = true
	got := s.Load(ctx)
	assert.Empty(t, got)

	// The failure did not replace the cache; once definitions recover the
	// next load sees them again.
	failing = false
	got = s.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Slug)
}

func TestLoadReplacesCacheEvenWhenAllRejected(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	docs := []string{manifestA}
	defs := func() [][]byte {
		out := make([][]byte, 0, len(docs))
		for _, d := range docs {
			out = append(out, []byte(d))
		}
		return out
	}
	s := New(defs, time.Hour, WithClock(clock))

	require.Len(t, s.Load(ctx), 1)

	clock.Advance(2 * time.Hour)
	docs = []string{manifestMissingName}
	assert.Empty(t, s.Load(ctx))

	// The empty accepted list replaced the cache and reset the window.
	docs = []string{manifestA}
	assert.Empty(t, s.Load(ctx), "empty list is cached for the full window")
}
