package controllers_test

import (
	"context"
	"dashboard/src/schemas"
	"dashboard/src/utils"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)

	t.Run("normalizes time and derives slug", func(t *testing.T) {
		report := createReport(t, ctrl, schemas.ReportRequest{
			Name:              "Weekly Ops Review",
			Cadence:           "weekly",
			DayOfWeekDeadline: intPtr(4),
			TimeDeadline:      strPtr("17:00"),
		})
		assert.Equal(t, "weekly-ops-review", report.Slug)
		assert.Equal(t, "Weekly", report.Cadence)
		assert.Equal(t, "17:00:00", *report.TimeDeadline)
		assert.Equal(t, "every Friday at 17:00:00", report.Schedule)
	})

	tests := []struct {
		name string
		req  schemas.ReportRequest
		code int
	}{
		{"monthly cadence", schemas.ReportRequest{Name: "Month End", Cadence: "Monthly", TimeDeadline: strPtr("09:00")}, http.StatusUnprocessableEntity},
		{"unknown cadence", schemas.ReportRequest{Name: "Yearly", Cadence: "Yearly"}, http.StatusUnprocessableEntity},
		{"off-grid time", schemas.ReportRequest{Name: "Odd", Cadence: "Daily", TimeDeadline: strPtr("09:15")}, http.StatusUnprocessableEntity},
		{"twelve-hour time", schemas.ReportRequest{Name: "Odd", Cadence: "Daily", TimeDeadline: strPtr("2:30 PM")}, http.StatusUnprocessableEntity},
		{"weekday out of range", schemas.ReportRequest{Name: "Odd", Cadence: "Weekly", DayOfWeekDeadline: intPtr(7), TimeDeadline: strPtr("09:00")}, http.StatusUnprocessableEntity},
		{"missing name", schemas.ReportRequest{Cadence: "Daily"}, http.StatusUnprocessableEntity},
		{"duplicate name", schemas.ReportRequest{Name: "Weekly Ops Review", Slug: "another", Cadence: "Daily"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ctrl.CreateReport(ctx, &tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, utils.StatusCode(err))
		})
	}
}

func TestUpdateReport(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)
	createReport(t, ctrl, schemas.ReportRequest{Name: "Ops", Cadence: "Daily", TimeDeadline: strPtr("09:00")})

	updated, err := ctrl.UpdateReport(ctx, "ops", &schemas.ReportRequest{
		Name:              "Ops Weekly",
		Cadence:           "Weekly",
		DayOfWeekDeadline: intPtr(0),
		TimeDeadline:      strPtr("08:30:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ops", updated.Slug)
	assert.Equal(t, "every Monday at 08:30:00", updated.Schedule)

	_, err = ctrl.UpdateReport(ctx, "ops", &schemas.ReportRequest{Name: "Ops Weekly", Cadence: "Monthly"})
	assert.Equal(t, http.StatusUnprocessableEntity, utils.StatusCode(err))

	_, err = ctrl.UpdateReport(ctx, "missing", &schemas.ReportRequest{Name: "x", Cadence: "Daily"})
	assert.Equal(t, http.StatusNotFound, utils.StatusCode(err))
}

func TestListReportsIsCachedUntilChange(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)

	bob := createUser(t, ctrl, "bob", "", false)
	createReport(t, ctrl, schemas.ReportRequest{Name: "Ops", Cadence: "Daily"})

	list, err := ctrl.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(0), list[0].UserCount)

	grant(t, ctrl, "ops", bob.ID, "view", nil)

	list, err = ctrl.ListReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list[0].UserCount)

	createReport(t, ctrl, schemas.ReportRequest{Name: "Budget", Cadence: "Daily"})
	list, err = ctrl.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Budget", list[0].Name)
}

func TestReportDetailAndAccess(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)

	zoe := createUser(t, ctrl, "zoe", "", false)
	amy := createUser(t, ctrl, "amy", "ACBO", false)
	createReport(t, ctrl, schemas.ReportRequest{Name: "Ops", Cadence: "Daily", TimeDeadline: strPtr("09:00")})

	expired := fixedNow.Add(-time.Hour)
	grant(t, ctrl, "ops", zoe.ID, "owner", nil)
	grant(t, ctrl, "ops", amy.ID, "view", &expired)

	detail, err := ctrl.GetReportDetail(ctx, "ops")
	require.NoError(t, err)
	require.Len(t, detail.Access, 2)
	assert.Equal(t, "amy", detail.Access[0].Username)
	assert.False(t, detail.Access[0].Active)
	assert.Equal(t, "zoe", detail.Access[1].Username)
	assert.True(t, detail.Access[1].Active)

	t.Run("unknown role", func(t *testing.T) {
		_, err := ctrl.GrantAccess(ctx, "ops", zoe.ID, &schemas.AccessRequest{Role: "admin"})
		assert.Equal(t, http.StatusUnprocessableEntity, utils.StatusCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := ctrl.GrantAccess(ctx, "ops", 9999, &schemas.AccessRequest{})
		assert.Equal(t, http.StatusNotFound, utils.StatusCode(err))
	})

	t.Run("revoke", func(t *testing.T) {
		require.NoError(t, ctrl.RevokeAccess(ctx, "ops", zoe.ID))
		err := ctrl.RevokeAccess(ctx, "ops", zoe.ID)
		assert.Equal(t, http.StatusNotFound, utils.StatusCode(err))
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	ctrl := newTestController(t)

	user := createUser(t, ctrl, "wes", "wcbo", true)
	assert.Equal(t, "WCBO", user.Location)
	assert.Equal(t, "America/Los_Angeles", user.Timezone)
	assert.True(t, user.IsStaff)

	_, err := ctrl.CreateUser(ctx, &schemas.CreateUserRequest{Username: "wes", Password: "pw"})
	assert.Equal(t, http.StatusConflict, utils.StatusCode(err))

	_, err = ctrl.CreateUser(ctx, &schemas.CreateUserRequest{Username: "mars", Password: "pw", Location: "MARS"})
	assert.Equal(t, http.StatusUnprocessableEntity, utils.StatusCode(err))
}
