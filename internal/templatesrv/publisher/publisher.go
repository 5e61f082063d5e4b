// Package publisher materializes a global template as the live homepage:
// demote the old homepage, create the new page, copy the template's blocks
// under fresh identifiers, attach auxiliary records, and verify. The page
// write is transactional in the datastore; the block copy compensates by
// deleting the new page on failure. Auxiliary records and verification are
// best-effort.
package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dberror"
	"github.com/campuscms/campuscms/internal/templatesrv/db/models"
)

// PageStore is the datastore surface the publisher needs. Implemented by
// the postgresql package; faked in tests.
type PageStore interface {
	GetHomepage(ctx context.Context) (*models.Page, apperrors.Error)
	PublishHomepage(ctx context.Context, page *models.Page) apperrors.Error
	DeletePage(ctx context.Context, pageID uuid.UUID) apperrors.Error
	InsertPageBlocks(ctx context.Context, blocks []models.PageBlock) apperrors.Error
	CreateSEOMetadata(ctx context.Context, meta *models.SEOMetadata) apperrors.Error
	CreateFabConfig(ctx context.Context, fab *models.FabConfig) apperrors.Error
	DemoteHomepage(ctx context.Context) (*models.Page, apperrors.Error)
	GetPageWithBlockCount(ctx context.Context, pageID uuid.UUID) (*models.Page, int, apperrors.Error)
}

// TemplateSource resolves the template the publisher applies.
type TemplateSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*cmscommon.Template, apperrors.Error)
}

// Reporter receives step-by-step progress. The CLI prints it; tests and
// library callers can leave it nil.
type Reporter interface {
	Step(n int, msg string)
	Warn(msg string)
}

type nopReporter struct{}

func (nopReporter) Step(int, string) {}
func (nopReporter) Warn(string)      {}

// Publisher runs the homepage apply and rollback workflows.
type Publisher struct {
	store    PageStore
	resolver TemplateSource
	report   Reporter
}

// New creates a Publisher. reporter may be nil.
func New(store PageStore, resolver TemplateSource, reporter Reporter) *Publisher {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Publisher{store: store, resolver: resolver, report: reporter}
}

// Result describes a completed apply run.
type Result struct {
	Page         *models.Page
	BlocksCopied int
	Demoted      *models.Page
	Warnings     []string
}

// Apply publishes the template with the given id as the homepage. Steps
// are strictly ordered; the error taxonomy is: template-not-found and page
// creation abort with nothing to clean up, a block copy failure
// compensates by deleting the new page, and auxiliary or verification
// failures are recorded as warnings on an otherwise successful result.
func (p *Publisher) Apply(ctx context.Context, templateID uuid.UUID) (*Result, apperrors.Error) {
	res := &Result{}

	p.report.Step(1, "resolving template "+templateID.String())
	tmpl, err := p.resolver.GetByID(ctx, templateID)
	if err != nil {
		return nil, ErrTemplateNotFound.Err(err)
	}

	p.report.Step(2, "checking for an existing homepage")
	current, err := p.store.GetHomepage(ctx)
	if err != nil && !errors.Is(err, dberror.ErrNotFound) {
		return nil, ErrPublishError.Err(err)
	}
	if current != nil {
		res.Demoted = current
		p.report.Step(2, fmt.Sprintf("existing homepage %q will be demoted", current.Slug))
	}

	p.report.Step(3, "creating homepage page from "+tmpl.Slug)
	page := &models.Page{
		Slug:  "home",
		Title: tmpl.Name,
	}
	if err := p.store.PublishHomepage(ctx, page); err != nil {
		return nil, ErrPageCreate.Err(err)
	}
	res.Page = page

	p.report.Step(4, fmt.Sprintf("copying %d blocks", len(tmpl.DefaultBlocks)))
	blocks := CopyBlocks(tmpl, page.ID)
	if err := p.store.InsertPageBlocks(ctx, blocks); err != nil {
		// Compensate: remove the page we just created, best effort.
		if delErr := p.store.DeletePage(ctx, page.ID); delErr != nil {
			log.Ctx(ctx).Error().Err(delErr).Str("page_id", page.ID.String()).
				Msg("compensating page delete failed")
		}
		return nil, ErrBlockCopy.Err(err)
	}
	res.BlocksCopied = len(blocks)

	p.report.Step(5, "creating SEO metadata")
	seo := &models.SEOMetadata{
		PageID:      page.ID,
		Title:       tmpl.Name,
		Description: tmpl.Description,
	}
	if err := p.store.CreateSEOMetadata(ctx, seo); err != nil {
		warn := "SEO metadata creation failed: " + err.Error()
		res.Warnings = append(res.Warnings, warn)
		p.report.Warn(warn)
	}

	p.report.Step(6, "creating floating action button config")
	fab := &models.FabConfig{
		PageID:  page.ID,
		Enabled: true,
		Config:  pgtype.JSONB{Status: pgtype.Null},
	}
	if err := p.store.CreateFabConfig(ctx, fab); err != nil {
		warn := "FAB config creation failed: " + err.Error()
		res.Warnings = append(res.Warnings, warn)
		p.report.Warn(warn)
	}

	p.report.Step(7, "verifying published homepage")
	verified, count, err := p.store.GetPageWithBlockCount(ctx, page.ID)
	if err != nil {
		warn := "verification read failed: " + err.Error()
		res.Warnings = append(res.Warnings, warn)
		p.report.Warn(warn)
	} else if !verified.IsHomepage || count != len(blocks) {
		warn := fmt.Sprintf("verification mismatch: is_homepage=%v blocks=%d want %d",
			verified.IsHomepage, count, len(blocks))
		res.Warnings = append(res.Warnings, warn)
		p.report.Warn(warn)
	}

	return res, nil
}

// Rollback un-publishes the current homepage: the flag is cleared and the
// status set to draft. Content is preserved for inspection or
// re-publication. When no homepage exists there is nothing to do and
// ErrNothingToRollback is returned; callers treat that as a clean exit.
func (p *Publisher) Rollback(ctx context.Context) (*models.Page, apperrors.Error) {
	page, err := p.store.DemoteHomepage(ctx)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, ErrNothingToRollback
		}
		return nil, ErrPublishError.Err(err)
	}
	return page, nil
}

// CopyBlocks copies a template's blocks for the given page, generating a
// fresh id per block and remapping parent references through the
// old-id→new-id mapping so nesting survives the copy.
func CopyBlocks(tmpl *cmscommon.Template, pageID uuid.UUID) []models.PageBlock {
	idMap := make(map[string]uuid.UUID, len(tmpl.DefaultBlocks))
	for _, b := range tmpl.DefaultBlocks {
		idMap[b.ID] = uuid.New()
	}

	blocks := make([]models.PageBlock, 0, len(tmpl.DefaultBlocks))
	for _, b := range tmpl.DefaultBlocks {
		block := models.PageBlock{
			ID:                 idMap[b.ID],
			PageID:             pageID,
			ComponentName:      b.ComponentName,
			Props:              toJSONB(b.Props),
			SortOrder:          b.SortOrder,
			IsVisible:          b.IsVisible,
			ResponsiveSettings: toJSONB(b.ResponsiveSettings),
			CustomCSS:          b.CustomCSS,
			CustomClasses:      b.CustomClasses,
		}
		if b.ParentBlockID != nil {
			if newID, ok := idMap[*b.ParentBlockID]; ok {
				block.ParentBlockID = &newID
			}
			// A dangling parent reference is dropped rather than copied
			// verbatim; the block becomes top-level.
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func toJSONB(m map[string]any) pgtype.JSONB {
	if len(m) == 0 {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	var j pgtype.JSONB
	if err := j.Set(m); err != nil {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	return j
}
