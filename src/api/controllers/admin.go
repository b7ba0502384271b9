package controllers

import (
	"context"
	"dashboard/src/deadlines"
	"dashboard/src/models"
	"dashboard/src/repositories"
	"dashboard/src/schemas"
	"dashboard/src/timezones"
	"dashboard/src/utils"
	redis_utils "dashboard/src/utils/redis"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var reportListKey = redis_utils.GenerateUUID("admin", "reports", "list")

// ListReports returns every report with its user count. The result is cached
// until a report or grant changes or the cache TTL passes.
func (c *Controller) ListReports(ctx context.Context) ([]schemas.ReportSummaryResponse, error) {
	logger := utils.LoggerFromContext(ctx)

	var cached []schemas.ReportSummaryResponse
	found, err := c.Cache.Get(ctx, reportListKey, &cached)
	if err != nil {
		logger.WithError(err).Warn("report list cache read failed")
	} else if found {
		return cached, nil
	}

	summaries, err := c.Reports.ListWithUserCount(ctx)
	if err != nil {
		return nil, err
	}
	response := make([]schemas.ReportSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, reportSummaryResponse(s))
	}

	if err := c.Cache.Set(ctx, reportListKey, response, c.CacheTTL); err != nil {
		logger.WithError(err).Warn("report list cache write failed")
	}
	return response, nil
}

func (c *Controller) invalidateReportList(ctx context.Context) {
	if err := c.Cache.Delete(ctx, reportListKey); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("report list cache invalidation failed")
	}
}

// GetReportDetail returns the report and every grant on it ordered by
// username, expired grants included and flagged inactive.
func (c *Controller) GetReportDetail(ctx context.Context, slug string) (*schemas.ReportDetailResponse, error) {
	report, err := c.Reports.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "report not found")
	}
	grants, err := c.Access.ListForReport(ctx, report.ID)
	if err != nil {
		return nil, err
	}

	now := c.Now()
	access := make([]schemas.AccessResponse, 0, len(grants))
	for _, g := range grants {
		access = append(access, accessResponse(g, now))
	}
	return &schemas.ReportDetailResponse{
		ReportResponse: reportResponse(*report),
		Access:         access,
	}, nil
}

func (c *Controller) CreateReport(ctx context.Context, req *schemas.ReportRequest) (*schemas.ReportResponse, error) {
	report := &models.Report{}
	if err := applyReportRequest(report, req); err != nil {
		return nil, err
	}

	if err := c.Reports.Create(ctx, report); err != nil {
		return nil, conflictOr(err, "a report with this name or slug already exists")
	}
	c.invalidateReportList(ctx)

	response := reportResponse(*report)
	return &response, nil
}

// UpdateReport replaces the editable fields of the report. An empty slug in
// the request keeps the current one.
func (c *Controller) UpdateReport(ctx context.Context, slug string, req *schemas.ReportRequest) (*schemas.ReportResponse, error) {
	report, err := c.Reports.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "report not found")
	}

	currentSlug := report.Slug
	if err := applyReportRequest(report, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Slug) == "" {
		report.Slug = currentSlug
	}

	if err := c.Reports.Update(ctx, report); err != nil {
		return nil, conflictOr(err, "a report with this name or slug already exists")
	}
	c.invalidateReportList(ctx)

	response := reportResponse(*report)
	return &response, nil
}

// applyReportRequest validates req and copies it onto report. The schedule
// must be one the dashboard can compute; Monthly is rejected.
func applyReportRequest(report *models.Report, req *schemas.ReportRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return utils.Unprocessable("name is required")
	}

	slug := models.Slugify(req.Slug)
	if slug == "" {
		slug = models.Slugify(name)
	}
	if slug == "" {
		return utils.Unprocessable("name must contain letters or digits")
	}

	cadence, err := deadlines.ParseCadence(req.Cadence)
	if err != nil {
		return utils.Unprocessable(err.Error())
	}

	var slot *deadlines.TimeSlot
	var timeDeadline *string
	if req.TimeDeadline != nil && strings.TrimSpace(*req.TimeDeadline) != "" {
		parsed, err := deadlines.ParseTimeSlot(*req.TimeDeadline)
		if err != nil {
			return utils.Unprocessable(err.Error())
		}
		slot = &parsed
		normalized := parsed.String()
		timeDeadline = &normalized
	}

	if _, err := deadlines.NewSchedule(cadence, req.DayOfWeekDeadline, slot); err != nil {
		if errors.Is(err, deadlines.ErrUnsupportedCadence) {
			return utils.Unprocessable(fmt.Sprintf("%s reports have no computable deadline", cadence))
		}
		return utils.Unprocessable(err.Error())
	}

	report.Name = name
	report.Slug = slug
	report.Description = req.Description
	report.Cadence = string(cadence)
	report.DayOfWeekDeadline = req.DayOfWeekDeadline
	report.TimeDeadline = timeDeadline
	return nil
}

func (c *Controller) GrantAccess(ctx context.Context, slug string, userID uint, req *schemas.AccessRequest) (*schemas.AccessResponse, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, utils.Unprocessable(fmt.Sprintf("unknown role %q", req.Role))
	}

	report, err := c.Reports.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "report not found")
	}
	user, err := c.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	grant := &models.UserReportAccess{
		UserID:    user.ID,
		ReportID:  report.ID,
		Role:      role,
		ExpiresAt: req.ExpiresAt,
	}
	if err := c.Access.Grant(ctx, grant); err != nil {
		return nil, err
	}
	c.invalidateReportList(ctx)

	grant.User = *user
	response := accessResponse(*grant, c.Now())
	return &response, nil
}

func (c *Controller) RevokeAccess(ctx context.Context, slug string, userID uint) error {
	report, err := c.Reports.GetBySlug(ctx, slug)
	if err != nil {
		return notFoundOr(err, "report not found")
	}
	if err := c.Access.Revoke(ctx, userID, report.ID); err != nil {
		return notFoundOr(err, "user has no access to this report")
	}
	c.invalidateReportList(ctx)
	return nil
}

// CreateUser hashes the password with bcrypt and creates the user together
// with its profile.
func (c *Controller) CreateUser(ctx context.Context, req *schemas.CreateUserRequest) (*schemas.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, utils.Unprocessable("username is required")
	}
	if req.Password == "" {
		return nil, utils.Unprocessable("password is required")
	}
	loc, err := timezones.ParseLocation(req.Location)
	if err != nil {
		return nil, utils.Unprocessable(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hash),
		IsStaff:  req.IsStaff,
		IsActive: true,
	}
	locality := c.Resolver.Locality(loc)
	if err := c.Users.Create(ctx, user, locality); err != nil {
		return nil, conflictOr(err, "username already taken")
	}

	return &schemas.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsStaff:  user.IsStaff,
		Location: string(locality.Location()),
		Timezone: locality.Timezone(),
	}, nil
}

func reportResponse(r models.Report) schemas.ReportResponse {
	schedule, err := r.Schedule()
	description := schedule.String()
	if err != nil {
		description = err.Error()
	}
	return schemas.ReportResponse{
		ID:                r.ID,
		Name:              r.Name,
		Slug:              r.Slug,
		Description:       r.Description,
		Cadence:           r.Cadence,
		DayOfWeekDeadline: r.DayOfWeekDeadline,
		TimeDeadline:      r.TimeDeadline,
		Schedule:          description,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func reportSummaryResponse(s repositories.ReportSummary) schemas.ReportSummaryResponse {
	return schemas.ReportSummaryResponse{
		ReportResponse: reportResponse(s.Report),
		UserCount:      s.UserCount,
	}
}

func accessResponse(a models.UserReportAccess, now time.Time) schemas.AccessResponse {
	return schemas.AccessResponse{
		UserID:    a.UserID,
		Username:  a.User.Username,
		ReportID:  a.ReportID,
		Role:      string(a.Role),
		GrantedAt: a.GrantedAt,
		ExpiresAt: a.ExpiresAt,
		Active:    a.ActiveAt(now),
	}
}
