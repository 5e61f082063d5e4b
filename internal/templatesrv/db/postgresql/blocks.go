package postgresql

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dberror"
	"github.com/campuscms/campuscms/internal/templatesrv/db/models"
)

// InsertPageBlocks inserts all blocks of a page in a single transaction.
// Either every block lands or none does; the publisher relies on that to
// decide whether to compensate.
func (s *Store) InsertPageBlocks(ctx context.Context, blocks []models.PageBlock) (err apperrors.Error) {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return dberror.ErrMissingTenantID
	}
	if len(blocks) == 0 {
		return nil
	}

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

	query := `
		INSERT INTO page_blocks (id, page_id, component_name, props, sort_order,
		                         parent_block_id, is_visible, responsive_settings,
		                         custom_css, custom_classes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, b := range blocks {
		if _, errdb := tx.ExecContext(ctx, query,
			b.ID, b.PageID, b.ComponentName, b.Props, b.SortOrder,
			b.ParentBlockID, b.IsVisible, b.ResponsiveSettings,
			b.CustomCSS, b.CustomClasses); errdb != nil {
			log.Ctx(ctx).Error().Err(errdb).Str("block_id", b.ID.String()).Msg("failed to insert page block")
			return dberror.ErrDatabase.Err(errdb)
		}
	}

	if errdb := tx.Commit(); errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	return nil
}
