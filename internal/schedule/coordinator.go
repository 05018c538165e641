// Package schedule keeps per-tenant refresh jobs registered with the external
// scheduler in sync with the tenant table. Reconciliation is convergent:
// running it any number of times over the same state yields one job per active
// tenant and none for inactive ones.
package schedule

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/engine"
	"github.com/newsforge/hotevents/internal/logger"
	"github.com/newsforge/hotevents/internal/store/schema"
)

// TenantSource is the slice of the store the coordinator needs
type TenantSource interface {
	ListTenants(ctx context.Context, isActive *bool) ([]*schema.Tenant, error)
	GetTenantConfig(ctx context.Context, tenantID int64) (*schema.TenantConfig, error)
}

// reconcileWorkers bounds how many tenants a full sweep touches at once.
// Each reconciliation is two scheduler round-trips, so a small pool is enough.
const reconcileWorkers = 4

// Coordinator reconciles scheduler jobs for tenants
type Coordinator struct {
	tenants   TenantSource
	scheduler engine.Scheduler
}

// NewCoordinator creates a schedule coordinator
func NewCoordinator(tenants TenantSource, scheduler engine.Scheduler) *Coordinator {
	return &Coordinator{
		tenants:   tenants,
		scheduler: scheduler,
	}
}

// JobName returns the scheduler job name for a tenant code
func JobName(code string) string {
	return "hot-cluster-" + code
}

// ValidateCron checks a cron expression before it is persisted or registered
func (c *Coordinator) ValidateCron(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCron, expr)
	}
	return nil
}

// Reconcile brings the scheduler job for one tenant in line with its current
// state. The job is always deregistered first, so repeated calls never stack
// duplicates and deactivation simply leaves nothing registered.
func (c *Coordinator) Reconcile(ctx context.Context, tenant *schema.Tenant) error {
	name := JobName(tenant.Code)

	if err := c.scheduler.Unschedule(ctx, name); err != nil {
		return fmt.Errorf("failed to deregister job for tenant %s: %w", tenant.Code, err)
	}

	if !tenant.IsActive {
		logger.InfoCtx(ctx, "tenant inactive, schedule left deregistered",
			zap.String("tenant_code", tenant.Code))
		return nil
	}

	cfg, err := c.tenants.GetTenantConfig(ctx, tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to load tenant config for %s: %w", tenant.Code, err)
	}

	cronExpr := cfg.ClusteringCron
	if cronExpr == "" {
		cronExpr = domain.DefaultClusteringCron
	}
	if err := c.ValidateCron(cronExpr); err != nil {
		return err
	}

	command := fmt.Sprintf("SELECT hotd_refresh_snapshot_by_system(%d)", tenant.ID)
	if err := c.scheduler.Schedule(ctx, name, cronExpr, command); err != nil {
		return fmt.Errorf("failed to register job for tenant %s: %w", tenant.Code, err)
	}

	logger.InfoCtx(ctx, "tenant schedule reconciled",
		zap.String("tenant_code", tenant.Code),
		zap.String("cron", cronExpr))
	return nil
}

// ReconcileAll reconciles every active tenant through a bounded worker pool.
// A failing tenant does not stop the sweep; the first error in tenant order is
// reported after all tenants were attempted.
func (c *Coordinator) ReconcileAll(ctx context.Context) (int, error) {
	active := true
	tenants, err := c.tenants.ListTenants(ctx, &active)
	if err != nil {
		return 0, fmt.Errorf("failed to list active tenants: %w", err)
	}

	pool := pond.NewPool(reconcileWorkers, pond.WithContext(ctx))
	tasks := make([]pond.Task, 0, len(tenants))
	for _, t := range tenants {
		tasks = append(tasks, pool.SubmitErr(func() error {
			return c.Reconcile(ctx, t)
		}))
	}
	pool.StopAndWait()

	var firstErr error
	reconciled := 0
	for i, task := range tasks {
		if err := task.Wait(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("tenant_code", tenants[i].Code))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		reconciled++
	}
	return reconciled, firstErr
}
