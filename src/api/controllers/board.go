package controllers

import (
	"context"
	"dashboard/src/deadlines"
	"dashboard/src/display"
	"dashboard/src/models"
	"dashboard/src/schemas"
	"dashboard/src/utils"
	"time"

	"github.com/sirupsen/logrus"
)

// GetMyReports lists the reports the user can currently access, ordered by
// name, each with its countdown in the display zone.
func (c *Controller) GetMyReports(ctx context.Context, userID uint, disp display.Context) ([]schemas.ReportDeadline, error) {
	now := c.Now()
	grants, err := c.Access.ListActiveForUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	board := make([]schemas.ReportDeadline, 0, len(grants))
	for _, grant := range grants {
		board = append(board, c.reportDeadline(ctx, grant, disp, now))
	}
	return board, nil
}

func (c *Controller) GetReportDeadline(ctx context.Context, userID uint, slug string, disp display.Context) (*schemas.ReportDeadline, error) {
	now := c.Now()
	grants, err := c.Access.ListActiveForUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	for _, grant := range grants {
		if grant.Report.Slug == slug {
			entry := c.reportDeadline(ctx, grant, disp, now)
			return &entry, nil
		}
	}
	return nil, utils.NotFound("report not found")
}

func (c *Controller) reportDeadline(ctx context.Context, grant models.UserReportAccess, disp display.Context, now time.Time) schemas.ReportDeadline {
	report := grant.Report

	schedule, err := report.Schedule()
	if err != nil {
		utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
			"report": report.Slug,
			"error":  err,
		}).Warn("report schedule cannot be evaluated, showing no deadline")
	}

	zone := disp.Zone
	if zone == nil {
		zone = time.UTC
	}
	status := deadlines.Evaluate(schedule, c.Reference, zone, now)

	entry := schemas.ReportDeadline{
		Name:        report.Name,
		Slug:        report.Slug,
		Role:        string(grant.Role),
		Cadence:     report.Cadence,
		Schedule:    schedule.String(),
		HasDeadline: status.HasDeadline,
		Countdown:   status.Text(),
		IsOverdue:   status.Countdown.Overdue,
		Zone:        disp.ZoneName(),
		ExpiresAt:   grant.ExpiresAt,
	}
	if status.HasDeadline {
		deadline := status.Deadline
		entry.Deadline = &deadline
	}
	return entry
}
