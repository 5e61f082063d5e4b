package postgresql

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/campuscms/campuscms/internal/common/apperrors"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dberror"
	"github.com/campuscms/campuscms/internal/templatesrv/db/models"
)

// localTemplateSchema constrains the definition documents institutions
// store. Rows failing validation are skipped, mirroring the store's
// skip-invalid policy for global definitions.
const localTemplateSchema = `{
	"type": "object",
	"required": ["slug", "name"],
	"properties": {
		"slug": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"category": {"type": "string"},
		"tags": {"type": "array", "items": {"type": "string"}},
		"is_system": {"type": "boolean"},
		"default_blocks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "component_name"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"component_name": {"type": "string", "minLength": 1},
					"sort_order": {"type": "integer"},
					"parent_block_id": {"type": ["string", "null"]},
					"is_visible": {"type": "boolean"}
				}
			}
		}
	}
}`

var localTemplateValidator = jsonschema.MustCompileString("local_template.schema.json", localTemplateSchema)

// ListLocalTemplates reads the institution's template rows and returns the
// valid ones as templates tagged with local provenance. Invalid rows are
// skipped with a warning, never surfaced as errors.
func (s *Store) ListLocalTemplates(ctx context.Context) ([]cmscommon.Template, apperrors.Error) {
	tenantID := cmscommon.GetTenantID(ctx)
	if tenantID == "" {
		return nil, dberror.ErrMissingTenantID
	}

	query := `
		SELECT id, slug, name, definition, created_at, updated_at
		FROM local_templates
		WHERE tenant_id = $1
		ORDER BY created_at;
	`
	rows, err := s.pool.DB().QueryContext(ctx, query, tenantID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to query local templates")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	templates := []cmscommon.Template{}
	for rows.Next() {
		var row models.LocalTemplate
		if err := rows.Scan(&row.ID, &row.Slug, &row.Name, &row.Definition,
			&row.CreatedAt, &row.UpdatedAt); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan local template row")
			return nil, dberror.ErrDatabase.Err(err)
		}

		tmpl, ok := decodeLocalTemplate(ctx, &row)
		if !ok {
			continue
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, dberror.ErrDatabase.Err(err)
	}

	return templates, nil
}

// decodeLocalTemplate validates and decodes one definition document. The
// row's own id, slug, name, and timestamps are authoritative over whatever
// the document claims.
func decodeLocalTemplate(ctx context.Context, row *models.LocalTemplate) (cmscommon.Template, bool) {
	var doc any
	if err := json.Unmarshal(row.Definition.Bytes, &doc); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("slug", row.Slug).Msg("skipping local template with malformed definition")
		return cmscommon.Template{}, false
	}
	if err := localTemplateValidator.Validate(doc); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("slug", row.Slug).Msg("skipping local template failing schema validation")
		return cmscommon.Template{}, false
	}

	var tmpl cmscommon.Template
	if err := json.Unmarshal(row.Definition.Bytes, &tmpl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("slug", row.Slug).Msg("skipping undecodable local template")
		return cmscommon.Template{}, false
	}

	tmpl.ID = row.ID
	tmpl.Slug = row.Slug
	tmpl.Name = row.Name
	tmpl.Source = cmscommon.TemplateSourceLocal
	tmpl.LastUpdated = row.UpdatedAt
	return tmpl, true
}
