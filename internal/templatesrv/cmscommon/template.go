package cmscommon

import (
	"time"

	"github.com/campuscms/campuscms/internal/common/uuid"
)

// BlockDescriptor is one UI unit within a template or page: which renderer
// to use, its property bag, and where it sits among its siblings. The
// component name and props are opaque to this layer; resolving the name to
// a renderer happens in the UI.
type BlockDescriptor struct {
	ID                 string         `json:"id"`
	ComponentName      string         `json:"component_name"`
	Props              map[string]any `json:"props,omitempty"`
	SortOrder          int            `json:"sort_order"`
	ParentBlockID      *string        `json:"parent_block_id,omitempty"`
	IsVisible          bool           `json:"is_visible"`
	ResponsiveSettings map[string]any `json:"responsive_settings,omitempty"`
	CustomCSS          string         `json:"custom_css,omitempty"`
	CustomClasses      string         `json:"custom_classes,omitempty"`
}

// Template is a named, versioned bundle of block descriptors plus metadata.
// A template exclusively owns its block list; applying a template to a page
// copies the blocks under new identifiers.
type Template struct {
	ID          uuid.UUID        `json:"id" validate:"required"`
	Slug        string           `json:"slug" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	Category    TemplateCategory `json:"category,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	IsSystem    bool             `json:"is_system"`
	Source      TemplateSource   `json:"source,omitempty"`
	Version     string           `json:"version,omitempty"`
	LastUpdated time.Time        `json:"last_updated,omitempty"`

	DefaultBlocks []BlockDescriptor `json:"default_blocks,omitempty"`
}
