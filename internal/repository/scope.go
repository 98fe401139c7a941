package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/tenant"
)

// NoTenant is bound as the tenant filter when the context carries no tenant.
// Tenant ids are positive, so it matches no row and reads fail closed.
const NoTenant int64 = -1

// Scope returns the tenant every read and update in ctx is filtered by.
func Scope(ctx context.Context) int64 {
	if id, ok := tenant.OrNull(ctx); ok {
		return id
	}
	return NoTenant
}

// Stamp overwrites the entity's tenant with the one resolved from ctx.
// Whatever the caller put there is discarded. The error wraps both
// ErrNoTenant and tenant.ErrNoUserContext.
func Stamp[T model.TenantScoped](ctx context.Context, e T) error {
	id, err := tenant.Required(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoTenant, err)
	}
	e.SetTenantID(id)
	return nil
}

// affectedOne converts a zero-row update or delete into ErrNotFound.
func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
