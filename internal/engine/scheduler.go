package engine

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Scheduler is the boundary to the external periodic job scheduler (pg_cron).
// Jobs are addressed by name; Unschedule of an absent name is a no-op so that
// callers can always deregister before registering.
type Scheduler interface {
	Schedule(ctx context.Context, name, cronExpr, command string) error
	Unschedule(ctx context.Context, name string) error
}

type pgScheduler struct {
	db *gorm.DB
}

// NewPGScheduler creates a scheduler gateway backed by pg_cron
func NewPGScheduler(db *gorm.DB) Scheduler {
	return &pgScheduler{db: db}
}

func (g *pgScheduler) Schedule(ctx context.Context, name, cronExpr, command string) error {
	err := g.db.WithContext(ctx).Exec("SELECT cron.schedule(?, ?, ?)", name, cronExpr, command).Error
	if err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	return nil
}

// Unschedule removes a named job. cron.unschedule(name) raises when the job
// does not exist, so the id is looked up through cron.job instead.
func (g *pgScheduler) Unschedule(ctx context.Context, name string) error {
	err := g.db.WithContext(ctx).Exec("SELECT cron.unschedule(jobid) FROM cron.job WHERE jobname = ?", name).Error
	if err != nil {
		return fmt.Errorf("failed to unschedule job %q: %w", name, err)
	}
	return nil
}
