package controllers

import (
	"context"
	"dashboard/src/scheduler"
	"dashboard/src/utils"
	"time"

	"github.com/sirupsen/logrus"
)

// PruneExpiredGrants deletes access grants whose expiry has passed.
func (c *Controller) PruneExpiredGrants(ctx context.Context) (int64, error) {
	deleted, err := c.Access.DeleteExpired(ctx, c.Now())
	if err != nil {
		return 0, err
	}
	utils.LoggerFromContext(ctx).WithField("deleted", deleted).Info("pruned expired report access grants")
	return deleted, nil
}

// SchedulePruning starts the periodic prune job on cronSpec, replacing any
// running schedule only once the new spec is accepted.
func (c *Controller) SchedulePruning(cronSpec string, timeout time.Duration) error {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	task, err := scheduler.NewScheduledTask(cronSpec, c.Logger, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := c.PruneExpiredGrants(utils.WithLogger(ctx, c.Logger)); err != nil {
			c.Logger.WithFields(logrus.Fields{"job": "prune_grants", "error": err}).Error("scheduled prune failed")
		}
	})
	if err != nil {
		return err
	}
	if c.pruneTask != nil {
		c.pruneTask.Cancel()
	}
	c.pruneTask = task
	return nil
}

// NextPrune is the time of the next scheduled prune, zero when none is
// scheduled.
func (c *Controller) NextPrune() time.Time {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if c.pruneTask == nil {
		return time.Time{}
	}
	return c.pruneTask.Next()
}

func (c *Controller) StopPruning() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if c.pruneTask != nil {
		c.pruneTask.Cancel()
		c.pruneTask = nil
	}
}
