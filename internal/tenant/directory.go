// Package tenant resolves request identity hints into a concrete tenant
// reference. Resolution is request-scoped and explicit; no resolved tenant is
// ever cached in package or goroutine state.
package tenant

import (
	"context"

	"go.uber.org/zap"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/logger"
	"github.com/newsforge/hotevents/internal/store/schema"
)

// Lookup is the slice of the store the directory needs
type Lookup interface {
	GetTenantByID(ctx context.Context, id int64) (*schema.Tenant, error)
	GetTenantByCode(ctx context.Context, code string) (*schema.Tenant, error)
}

// Directory resolves tenant identity hints against the tenant table. Unknown
// or inactive tenants resolve to nil rather than an error, so requests without
// a usable hint fall through to the shared scope.
type Directory struct {
	lookup Lookup
}

// NewDirectory creates a tenant directory
func NewDirectory(lookup Lookup) *Directory {
	return &Directory{lookup: lookup}
}

// ResolveByID resolves a numeric tenant id. Inactive tenants resolve to nil.
func (d *Directory) ResolveByID(ctx context.Context, id int64) (*domain.TenantRef, error) {
	t, err := d.lookup.GetTenantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.toRef(ctx, t), nil
}

// ResolveByCode resolves a tenant code. Inactive tenants resolve to nil.
func (d *Directory) ResolveByCode(ctx context.Context, code string) (*domain.TenantRef, error) {
	t, err := d.lookup.GetTenantByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return d.toRef(ctx, t), nil
}

func (d *Directory) toRef(ctx context.Context, t *schema.Tenant) *domain.TenantRef {
	if t == nil {
		return nil
	}
	if !t.IsActive {
		logger.WarnCtx(ctx, "inactive tenant hint ignored",
			zap.String("tenant_code", t.Code))
		return nil
	}
	return &domain.TenantRef{ID: t.ID, Code: t.Code}
}
