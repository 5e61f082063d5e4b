package cmscommon

import (
	"context"
)

// ctxKeyType is the type for all context keys in this package.
type ctxKeyType string

const (
	ctxTenantIDKey ctxKeyType = "CmsTenantID"
)

// WithTenantID sets the tenant ID in the provided context.
func WithTenantID(ctx context.Context, tenantID TenantID) context.Context {
	return context.WithValue(ctx, ctxTenantIDKey, tenantID)
}

// GetTenantID retrieves the tenant ID from the provided context. Returns an
// empty TenantID when none is set.
func GetTenantID(ctx context.Context) TenantID {
	if tenantID, ok := ctx.Value(ctxTenantIDKey).(TenantID); ok {
		return tenantID
	}
	return ""
}
