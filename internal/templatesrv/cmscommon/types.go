// Package cmscommon holds the shared types and context utilities of the
// template service: template and block shapes, provenance and category
// enums, and the institution (tenant) context.
package cmscommon

const ServerVersion = "0.3.0"
const APIVersion = "2026-08-01"

// TenantID identifies an institution. Local templates and pages are scoped
// to a tenant; global templates are tenant-independent.
type TenantID string

// TemplateSource tags where a template came from. Global templates are
// defined in code and identical across deployments; local templates live in
// the institution's database.
type TemplateSource string

const (
	TemplateSourceGlobal TemplateSource = "global"
	TemplateSourceLocal  TemplateSource = "local"
)

// TemplateCategory is the closed classification set for templates.
type TemplateCategory string

const (
	CategoryGeneral   TemplateCategory = "general"
	CategoryLanding   TemplateCategory = "landing"
	CategoryContent   TemplateCategory = "content"
	CategoryBlog      TemplateCategory = "blog"
	CategoryPortfolio TemplateCategory = "portfolio"
	CategoryEcommerce TemplateCategory = "ecommerce"
)

// KnownCategories returns all categories in display order.
func KnownCategories() []TemplateCategory {
	return []TemplateCategory{
		CategoryGeneral,
		CategoryLanding,
		CategoryContent,
		CategoryBlog,
		CategoryPortfolio,
		CategoryEcommerce,
	}
}

// Known reports whether the category is one of the closed set.
func (c TemplateCategory) Known() bool {
	switch c {
	case CategoryGeneral, CategoryLanding, CategoryContent,
		CategoryBlog, CategoryPortfolio, CategoryEcommerce:
		return true
	}
	return false
}

// PageStatus is the publication status of a page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)
