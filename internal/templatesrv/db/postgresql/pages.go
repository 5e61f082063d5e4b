package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dberror"
	"github.com/campuscms/campuscms/internal/templatesrv/db/models"
)

// GetHomepage returns the page currently flagged as the homepage, or
// ErrNotFound when no page carries the flag.
func (s *Store) GetHomepage(ctx context.Context) (*models.Page, apperrors.Error) {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return nil, dberror.ErrMissingTenantID
	}

	query := `
		SELECT id, tenant_id, slug, title, status, is_homepage, created_at, updated_at
		FROM pages
		WHERE tenant_id = $1 AND is_homepage = true;
	`
	var page models.Page
	err := s.pool.DB().QueryRowContext(ctx, query, tenantID).Scan(
		&page.ID, &page.TenantID, &page.Slug, &page.Title,
		&page.Status, &page.IsHomepage, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("no homepage is set")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to query homepage")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return &page, nil
}

// PublishHomepage demotes any existing homepage and creates the new page
// in a single transaction, so a crash can never leave the site with zero
// homepages. The created page is flagged homepage with published status.
func (s *Store) PublishHomepage(ctx context.Context, page *models.Page) (err apperrors.Error) {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return dberror.ErrMissingTenantID
	}
	page.TenantID = tenantID

	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	page.Status = cmscommon.PageStatusPublished
	page.IsHomepage = true

	conn, errdb := s.pool.Conn(ctx)
	if errdb != nil {
		return dberror.ErrDatabase.Err(errdb)
	}
	defer conn.Close()

	tx, errdb := conn.BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	demote := `
		UPDATE pages
		SET is_homepage = false, updated_at = now()
		WHERE tenant_id = $1 AND is_homepage = true;
	`
	if _, errdb := tx.ExecContext(ctx, demote, tenantID); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to demote existing homepage")
		return dberror.ErrDatabase.Err(errdb)
	}

	insert := `
		INSERT INTO pages (id, tenant_id, slug, title, status, is_homepage)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at;
	`
	errdb = tx.QueryRowContext(ctx, insert,
		page.ID, tenantID, page.Slug, page.Title, page.Status, page.IsHomepage).
		Scan(&page.CreatedAt, &page.UpdatedAt)
	if errdb != nil {
		var pgErr *pgconn.PgError
		if errors.As(errdb, &pgErr) && pgErr.Code == "23505" {
			log.Ctx(ctx).Error().Str("slug", page.Slug).Msg("page slug already exists")
			return dberror.ErrAlreadyExists.Msg("page already exists")
		}
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to insert page")
		return dberror.ErrDatabase.Err(errdb)
	}

	if errdb := tx.Commit(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}

// DeletePage removes a page and, via cascading deletes, its blocks. This
// is the compensating action for a failed block copy.
func (s *Store) DeletePage(ctx context.Context, pageID uuid.UUID) apperrors.Error {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return dberror.ErrMissingTenantID
	}
	if pageID == uuid.Nil {
		return dberror.ErrInvalidInput.Msg("invalid page ID")
	}

	query := `DELETE FROM pages WHERE tenant_id = $1 AND id = $2;`
	if _, err := s.pool.DB().ExecContext(ctx, query, tenantID, pageID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("page_id", pageID.String()).Msg("failed to delete page")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// DemoteHomepage un-publishes the current homepage: the flag is cleared
// and the status set to draft, leaving the page and its blocks intact.
// Returns ErrNotFound when no page carries the flag.
func (s *Store) DemoteHomepage(ctx context.Context) (*models.Page, apperrors.Error) {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return nil, dberror.ErrMissingTenantID
	}

	query := `
		UPDATE pages
		SET is_homepage = false, status = $1, updated_at = now()
		WHERE tenant_id = $2 AND is_homepage = true
		RETURNING id, tenant_id, slug, title, status, is_homepage, created_at, updated_at;
	`
	var page models.Page
	err := s.pool.DB().QueryRowContext(ctx, query, cmscommon.PageStatusDraft, tenantID).Scan(
		&page.ID, &page.TenantID, &page.Slug, &page.Title,
		&page.Status, &page.IsHomepage, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("no homepage is set")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to demote homepage")
		return nil, dberror.ErrDatabase.Err(err)
	}
	return &page, nil
}

// GetPageWithBlockCount re-reads a page together with the number of blocks
// attached to it. Used by the publisher's verification step.
func (s *Store) GetPageWithBlockCount(ctx context.Context, pageID uuid.UUID) (*models.Page, int, apperrors.Error) {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return nil, 0, dberror.ErrMissingTenantID
	}
	if pageID == uuid.Nil {
		return nil, 0, dberror.ErrInvalidInput.Msg("invalid page ID")
	}

	query := `
		SELECT p.id, p.tenant_id, p.slug, p.title, p.status, p.is_homepage,
		       p.created_at, p.updated_at, count(b.id)
		FROM pages p
		LEFT JOIN page_blocks b ON b.page_id = p.id
		WHERE p.tenant_id = $1 AND p.id = $2
		GROUP BY p.id, p.tenant_id, p.slug, p.title, p.status, p.is_homepage,
		         p.created_at, p.updated_at;
	`
	var page models.Page
	var blockCount int
	err := s.pool.DB().QueryRowContext(ctx, query, tenantID, pageID).Scan(
		&page.ID, &page.TenantID, &page.Slug, &page.Title,
		&page.Status, &page.IsHomepage, &page.CreatedAt, &page.UpdatedAt,
		&blockCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, dberror.ErrNotFound.Msg("page not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to read page")
		return nil, 0, dberror.ErrDatabase.Err(err)
	}
	return &page, blockCount, nil
}
