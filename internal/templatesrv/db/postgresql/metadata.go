package postgresql

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/common/uuid"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dberror"
	"github.com/campuscms/campuscms/internal/templatesrv/db/models"
)

// CreateSEOMetadata inserts the SEO record for a page. Callers treat a
// failure here as non-fatal; the page is published regardless.
func (s *Store) CreateSEOMetadata(ctx context.Context, meta *models.SEOMetadata) apperrors.Error {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return dberror.ErrMissingTenantID
	}
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}

	query := `
		INSERT INTO seo_metadata (id, page_id, title, description, og_image_url)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := s.pool.DB().ExecContext(ctx, query,
		meta.ID, meta.PageID, meta.Title, meta.Description, meta.OGImageURL); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("page_id", meta.PageID.String()).Msg("failed to insert seo metadata")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}

// CreateFabConfig inserts the floating-action-button configuration for a
// page. Non-fatal for the publisher, like the SEO record.
func (s *Store) CreateFabConfig(ctx context.Context, fab *models.FabConfig) apperrors.Error {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return dberror.ErrMissingTenantID
	}
	if fab.ID == uuid.Nil {
		fab.ID = uuid.New()
	}

	query := `
		INSERT INTO fab_configs (id, page_id, enabled, config)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := s.pool.DB().ExecContext(ctx, query,
		fab.ID, fab.PageID, fab.Enabled, fab.Config); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("page_id", fab.PageID.String()).Msg("failed to insert fab config")
		return dberror.ErrDatabase.Err(err)
	}
	return nil
}
