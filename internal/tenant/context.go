// Package tenant carries the authenticated caller's identity and tenant
// through a request context and resolves the tenant for data access.
package tenant

import (
	"context"
	"errors"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tenantKey   contextKey = "tenant"
)

// ErrNoUserContext is returned by Required when neither an authenticated
// identity nor an explicit bootstrap tenant is present.
var ErrNoUserContext = errors.New("no user context available")

// Identity is the authenticated caller as read from a validated access token.
type Identity struct {
	UserID   int64
	Email    string
	TenantID int64
	Roles    []string
}

// HasRole reports whether the identity carries at least one of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, have := range i.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// WithIdentity stores the authenticated identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithTenant scopes ctx to tenant id without an authenticated identity.
// Bootstrap work such as demo seeding uses it.
func WithTenant(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, tenantKey, id)
}

// OrNull returns the tenant of the caller, or false when there is none.
// An authenticated identity wins over a bootstrap tenant.
func OrNull(ctx context.Context) (int64, bool) {
	if id, ok := IdentityFrom(ctx); ok && id.TenantID > 0 {
		return id.TenantID, true
	}
	if t, ok := ctx.Value(tenantKey).(int64); ok && t > 0 {
		return t, true
	}
	return 0, false
}

// Required is OrNull that fails with ErrNoUserContext instead of reporting
// absence.
func Required(ctx context.Context) (int64, error) {
	t, ok := OrNull(ctx)
	if !ok {
		return 0, ErrNoUserContext
	}
	return t, nil
}
