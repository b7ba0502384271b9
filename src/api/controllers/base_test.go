package controllers_test

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/api/controllers"
	"dashboard/src/config"
	"dashboard/src/database/dbtest"
	"dashboard/src/schemas"
	"dashboard/src/timezones"
	"dashboard/src/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Wednesday 2024-03-06 14:00 in New York.
var fixedNow = time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Timezones.ReferenceZone = "America/New_York"
	cfg.Timezones.DefaultDisplayZone = "America/New_York"
	cfg.Cache.TTL = time.Minute
	cfg.Auth.TokenTTL = time.Hour
	return cfg
}

func newTestController(t *testing.T) *controllers.Controller {
	t.Helper()
	cfg := testConfig()
	resolver, err := timezones.NewResolver(cfg.Timezones.DefaultDisplayZone, nil)
	require.NoError(t, err)

	ctrl, err := controllers.NewController(dbtest.New(t), cfg, resolver, utils.NewMemoryStore(), auth.NewTokenIssuer("test-secret", cfg.Auth.TokenTTL))
	require.NoError(t, err)
	ctrl.Now = func() time.Time { return fixedNow }
	return ctrl
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func createUser(t *testing.T, ctrl *controllers.Controller, username, location string, staff bool) *schemas.UserResponse {
	t.Helper()
	user, err := ctrl.CreateUser(context.Background(), &schemas.CreateUserRequest{
		Username: username,
		Password: "correct horse",
		Location: location,
		IsStaff:  staff,
	})
	require.NoError(t, err)
	return user
}

func createReport(t *testing.T, ctrl *controllers.Controller, req schemas.ReportRequest) *schemas.ReportResponse {
	t.Helper()
	report, err := ctrl.CreateReport(context.Background(), &req)
	require.NoError(t, err)
	return report
}

func grant(t *testing.T, ctrl *controllers.Controller, slug string, userID uint, role string, expires *time.Time) {
	t.Helper()
	_, err := ctrl.GrantAccess(context.Background(), slug, userID, &schemas.AccessRequest{Role: role, ExpiresAt: expires})
	require.NoError(t, err)
}

