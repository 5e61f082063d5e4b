package models

import (
	"time"

	"github.com/jackc/pgtype"

	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
)

// Page is a persisted document. At most one page per tenant carries the
// homepage flag; the publisher enforces that, not the schema.
type Page struct {
	ID         uuid.UUID            `db:"id"`
	TenantID   cmscommon.TenantID   `db:"tenant_id"`
	Slug       string               `db:"slug"`
	Title      string               `db:"title"`
	Status     cmscommon.PageStatus `db:"status"`
	IsHomepage bool                 `db:"is_homepage"`
	CreatedAt  time.Time            `db:"created_at"`
	UpdatedAt  time.Time            `db:"updated_at"`
}

// PageBlock is one copied block in a page. Ids are generated at copy time;
// parent references point within the same page's block set.
type PageBlock struct {
	ID                 uuid.UUID    `db:"id"`
	PageID             uuid.UUID    `db:"page_id"`
	ComponentName      string       `db:"component_name"`
	Props              pgtype.JSONB `db:"props"`
	SortOrder          int          `db:"sort_order"`
	ParentBlockID      *uuid.UUID   `db:"parent_block_id"`
	IsVisible          bool         `db:"is_visible"`
	ResponsiveSettings pgtype.JSONB `db:"responsive_settings"`
	CustomCSS          string       `db:"custom_css"`
	CustomClasses      string       `db:"custom_classes"`
}

// SEOMetadata is the auxiliary SEO record tied to a page.
type SEOMetadata struct {
	ID          uuid.UUID `db:"id"`
	PageID      uuid.UUID `db:"page_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	OGImageURL  string    `db:"og_image_url"`
}

// FabConfig is the floating-action-button configuration tied to a page.
type FabConfig struct {
	ID      uuid.UUID    `db:"id"`
	PageID  uuid.UUID    `db:"page_id"`
	Enabled bool         `db:"enabled"`
	Config  pgtype.JSONB `db:"config"`
}
