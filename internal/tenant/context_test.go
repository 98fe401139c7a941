package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrNull_NoIdentity(t *testing.T) {
	id, ok := OrNull(context.Background())
	assert.False(t, ok)
	assert.Zero(t, id)
}

func TestOrNull_FromIdentity(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: 7, TenantID: 3, Roles: []string{"HRUser"}})
	id, ok := OrNull(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
}

func TestOrNull_IdentityWinsOverBootstrapTenant(t *testing.T) {
	ctx := WithTenant(context.Background(), 1)
	ctx = WithIdentity(ctx, Identity{UserID: 7, TenantID: 2})
	id, ok := OrNull(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
}

func TestOrNull_IgnoresNonPositiveTenant(t *testing.T) {
	_, ok := OrNull(WithTenant(context.Background(), 0))
	assert.False(t, ok)
	_, ok = OrNull(WithIdentity(context.Background(), Identity{UserID: 1, TenantID: -1}))
	assert.False(t, ok)
}

func TestRequired(t *testing.T) {
	_, err := Required(context.Background())
	require.ErrorIs(t, err, ErrNoUserContext)
	assert.Equal(t, "no user context available", err.Error())

	id, err := Required(WithTenant(context.Background(), 5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestIdentity_HasRole(t *testing.T) {
	id := Identity{Roles: []string{"HRUser"}}
	assert.True(t, id.HasRole("Admin", "HRUser"))
	assert.False(t, id.HasRole("Admin"))
	assert.False(t, Identity{}.HasRole("Admin"))
}
