package model

// TenantScoped is implemented by every entity whose rows belong to a single
// tenant. Repositories constrain their generic helpers on it.
type TenantScoped interface {
	TenantID() int64
	SetTenantID(id int64)
}

// Tenancy carries the owning tenant of a row. Embed it in tenant-scoped
// entities; the value is set by the repository at insert time and is never
// serialized to API clients.
type Tenancy struct {
	Tenant int64 `json:"-"`
}

// TenantID returns the owning tenant.
func (t Tenancy) TenantID() int64 { return t.Tenant }

// SetTenantID overwrites the owning tenant.
func (t *Tenancy) SetTenantID(id int64) { t.Tenant = id }
