// Package models defines the row shapes of the external collections the
// template service writes into: pages, page blocks, SEO metadata, FAB
// config, and the institution-local template rows it reads.
package models

import (
	"time"

	"github.com/jackc/pgtype"

	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
)

// LocalTemplate is an institution-defined template row. The full template
// document (metadata plus default blocks) lives in the Definition JSONB
// column and is schema-validated when read.
type LocalTemplate struct {
	ID         uuid.UUID          `db:"id"`
	TenantID   cmscommon.TenantID `db:"tenant_id"`
	Slug       string             `db:"slug"`
	Name       string             `db:"name"`
	Definition pgtype.JSONB       `db:"definition"`
	CreatedAt  time.Time          `db:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at"`
}
