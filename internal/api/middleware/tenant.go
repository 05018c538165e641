package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/logger"
)

const (
	systemCodeHeader = "X-System-Code"
	tenantContextKey = "resolved_tenant"
)

// TenantResolver resolves identity hints into tenant references
type TenantResolver interface {
	ResolveByID(ctx context.Context, id int64) (*domain.TenantRef, error)
	ResolveByCode(ctx context.Context, code string) (*domain.TenantRef, error)
}

// ResolveTenant returns a gin middleware that resolves the caller's tenant
// once per request and stores it in the gin context. Hints are tried in
// order: systemId query param, X-System-Code header, systemCode query param.
// An unresolvable hint falls through to the global legacy scope with a
// warning rather than failing the request.
func ResolveTenant(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if raw := c.Query("systemId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logger.WarnCtx(ctx, "malformed systemId hint ignored", zap.String("systemId", raw))
			} else if ref := resolve(ctx, func() (*domain.TenantRef, error) {
				return resolver.ResolveByID(ctx, id)
			}, raw); ref != nil {
				c.Set(tenantContextKey, ref)
				c.Next()
				return
			}
		}

		if code := c.GetHeader(systemCodeHeader); code != "" {
			if ref := resolve(ctx, func() (*domain.TenantRef, error) {
				return resolver.ResolveByCode(ctx, code)
			}, code); ref != nil {
				c.Set(tenantContextKey, ref)
				c.Next()
				return
			}
		}

		if code := c.Query("systemCode"); code != "" {
			if ref := resolve(ctx, func() (*domain.TenantRef, error) {
				return resolver.ResolveByCode(ctx, code)
			}, code); ref != nil {
				c.Set(tenantContextKey, ref)
				c.Next()
				return
			}
		}

		c.Next()
	}
}

func resolve(ctx context.Context, fn func() (*domain.TenantRef, error), hint string) *domain.TenantRef {
	ref, err := fn()
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("tenant_hint", hint))
		return nil
	}
	if ref == nil {
		logger.WarnCtx(ctx, "tenant hint did not resolve, serving global scope",
			zap.String("tenant_hint", hint))
	}
	return ref
}

// TenantFromContext returns the tenant resolved for this request, nil when
// the request runs in the global legacy scope
func TenantFromContext(c *gin.Context) *domain.TenantRef {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil
	}
	ref, ok := v.(*domain.TenantRef)
	if !ok {
		return nil
	}
	return ref
}
