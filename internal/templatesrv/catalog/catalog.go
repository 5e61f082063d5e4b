// Package catalog carries the statically authored global template
// definitions. Templates are YAML manifests embedded at build time; the
// registration order below is fixed at deployment and determines load
// order everywhere downstream.
package catalog

import (
	"embed"

	"github.com/campuscms/campuscms/internal/common/uuid"
)

//go:embed manifests/*.yaml
var manifestFS embed.FS

// registrationOrder lists the manifests in their registration order. New
// templates are appended here; reordering changes the default ordering of
// every unfiltered listing.
var registrationOrder = []string{
	"manifests/campus-landing.yaml",
	"manifests/admissions-overview.yaml",
	"manifests/campus-news.yaml",
	"manifests/student-gallery.yaml",
	"manifests/campus-store.yaml",
	"manifests/welcome-basic.yaml",
}

// HomepageTemplateID is the template the homepage publisher materializes.
// The publisher is a single-purpose tool; it is not configurable.
var HomepageTemplateID = uuid.MustParse("01972c1a-5b20-7f31-9a44-3d61b8a20c11")

// Definitions returns the raw manifest documents in registration order.
// A manifest that cannot be read is returned as nil so the store can count
// and skip it like any other invalid entry.
func Definitions() [][]byte {
	defs := make([][]byte, 0, len(registrationOrder))
	for _, name := range registrationOrder {
		data, err := manifestFS.ReadFile(name)
		if err != nil {
			defs = append(defs, nil)
			continue
		}
		defs = append(defs, data)
	}
	return defs
}
