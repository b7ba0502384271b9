package repositories_test

import (
	"context"
	"dashboard/src/database/dbtest"
	"dashboard/src/models"
	"dashboard/src/repositories"
	"dashboard/src/timezones"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newResolver(t *testing.T) *timezones.Resolver {
	t.Helper()
	resolver, err := timezones.NewResolver(timezones.DefaultZone, nil)
	require.NoError(t, err)
	return resolver
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := repositories.NewReportRepository(db)

	t.Run("Create derives the slug and GetBySlug finds it", func(t *testing.T) {
		report := &models.Report{
			Name:              "Weekly Ops Review",
			Cadence:           "Weekly",
			DayOfWeekDeadline: intPtr(2),
			TimeDeadline:      strPtr("14:30:00"),
		}
		require.NoError(t, repo.Create(ctx, report))
		assert.NotZero(t, report.ID)
		assert.Equal(t, "weekly-ops-review", report.Slug)

		found, err := repo.GetBySlug(ctx, "weekly-ops-review")
		require.NoError(t, err)
		assert.Equal(t, report.ID, found.ID)
		assert.Equal(t, "14:30:00", *found.TimeDeadline)
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		err := repo.Create(ctx, &models.Report{Name: "Weekly Ops Review", Slug: "other", Cadence: "Daily"})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("Update clears optional fields", func(t *testing.T) {
		report, err := repo.GetBySlug(ctx, "weekly-ops-review")
		require.NoError(t, err)
		report.DayOfWeekDeadline = nil
		report.TimeDeadline = nil
		require.NoError(t, repo.Update(ctx, report))

		found, err := repo.GetBySlug(ctx, "weekly-ops-review")
		require.NoError(t, err)
		assert.Equal(t, report.ID, found.ID)
		assert.Nil(t, found.DayOfWeekDeadline)
		assert.Nil(t, found.TimeDeadline)
	})

	t.Run("GetBySlug misses unknown slugs", func(t *testing.T) {
		_, err := repo.GetBySlug(ctx, "nope")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestListWithUserCount(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	reports := repositories.NewReportRepository(db)
	users := repositories.NewUserRepository(db)
	access := repositories.NewAccessRepository(db)
	resolver := newResolver(t)

	zeta := &models.Report{Name: "Zeta", Cadence: "Daily"}
	alpha := &models.Report{Name: "Alpha", Cadence: "Daily"}
	require.NoError(t, reports.Create(ctx, zeta))
	require.NoError(t, reports.Create(ctx, alpha))

	for _, name := range []string{"ann", "bob"} {
		u := &models.User{Username: name, Password: "x", IsActive: true}
		require.NoError(t, users.Create(ctx, u, resolver.Locality(timezones.LocationUnset)))
		require.NoError(t, access.Grant(ctx, &models.UserReportAccess{UserID: u.ID, ReportID: zeta.ID}))
	}

	summaries, err := reports.ListWithUserCount(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Alpha", summaries[0].Name)
	assert.Equal(t, int64(0), summaries[0].UserCount)
	assert.Equal(t, "Zeta", summaries[1].Name)
	assert.Equal(t, int64(2), summaries[1].UserCount)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := repositories.NewUserRepository(db)
	resolver := newResolver(t)

	user := &models.User{Username: "ann", Email: "ann@example.com", Password: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, user, resolver.Locality(timezones.LocationUnset)))

	t.Run("Create adds a profile with the default zone", func(t *testing.T) {
		profile, err := repo.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "", profile.Location)
		assert.Equal(t, "America/New_York", profile.Timezone)
	})

	t.Run("SaveLocality writes location and zone together", func(t *testing.T) {
		profile, err := repo.SaveLocality(ctx, user.ID, resolver.Locality(timezones.LocationWCBO))
		require.NoError(t, err)
		assert.Equal(t, "WCBO", profile.Location)
		assert.Equal(t, "America/Los_Angeles", profile.Timezone)

		found, err := repo.GetByUsername(ctx, "ann")
		require.NoError(t, err)
		require.NotNil(t, found.Profile)
		assert.Equal(t, "America/Los_Angeles", found.Profile.Timezone)
	})

	t.Run("duplicate usernames are rejected", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "ann", Password: "x", IsActive: true}, resolver.Locality(timezones.LocationUnset))
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("GetByID misses unknown users", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestAccessRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	reports := repositories.NewReportRepository(db)
	users := repositories.NewUserRepository(db)
	repo := repositories.NewAccessRepository(db)
	resolver := newResolver(t)
	now := time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)

	ops := &models.Report{Name: "Ops", Cadence: "Daily", TimeDeadline: strPtr("09:00:00")}
	budget := &models.Report{Name: "Budget", Cadence: "Daily", TimeDeadline: strPtr("17:00:00")}
	old := &models.Report{Name: "Archive", Cadence: "Daily"}
	for _, r := range []*models.Report{ops, budget, old} {
		require.NoError(t, reports.Create(ctx, r))
	}
	bob := &models.User{Username: "bob", Password: "x", IsActive: true}
	ann := &models.User{Username: "ann", Password: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, bob, resolver.Locality(timezones.LocationUnset)))
	require.NoError(t, users.Create(ctx, ann, resolver.Locality(timezones.LocationUnset)))

	expired := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	require.NoError(t, repo.Grant(ctx, &models.UserReportAccess{UserID: bob.ID, ReportID: ops.ID, Role: models.RoleView}))
	require.NoError(t, repo.Grant(ctx, &models.UserReportAccess{UserID: bob.ID, ReportID: budget.ID, ExpiresAt: &later}))
	require.NoError(t, repo.Grant(ctx, &models.UserReportAccess{UserID: bob.ID, ReportID: old.ID, ExpiresAt: &expired}))
	require.NoError(t, repo.Grant(ctx, &models.UserReportAccess{UserID: ann.ID, ReportID: ops.ID, Role: models.RoleOwner}))

	t.Run("ListActiveForUser skips expired grants and orders by report name", func(t *testing.T) {
		grants, err := repo.ListActiveForUser(ctx, bob.ID, now)
		require.NoError(t, err)
		require.Len(t, grants, 2)
		assert.Equal(t, "Budget", grants[0].Report.Name)
		assert.Equal(t, models.RoleEdit, grants[0].Role)
		assert.Equal(t, "Ops", grants[1].Report.Name)
		assert.Equal(t, models.RoleView, grants[1].Role)
	})

	t.Run("Grant upserts on user and report", func(t *testing.T) {
		access := &models.UserReportAccess{UserID: bob.ID, ReportID: ops.ID, Role: models.RoleOwner}
		require.NoError(t, repo.Grant(ctx, access))
		assert.NotZero(t, access.ID)
		assert.Equal(t, models.RoleOwner, access.Role)

		grants, err := repo.ListForReport(ctx, ops.ID)
		require.NoError(t, err)
		require.Len(t, grants, 2)
		assert.Equal(t, "ann", grants[0].User.Username)
		assert.Equal(t, "bob", grants[1].User.Username)
		assert.Equal(t, models.RoleOwner, grants[1].Role)
	})

	t.Run("DeleteExpired removes only past grants", func(t *testing.T) {
		deleted, err := repo.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		grants, err := repo.ListForReport(ctx, old.ID)
		require.NoError(t, err)
		assert.Empty(t, grants)
	})

	t.Run("Revoke", func(t *testing.T) {
		require.NoError(t, repo.Revoke(ctx, ann.ID, ops.ID))
		assert.ErrorIs(t, repo.Revoke(ctx, ann.ID, ops.ID), gorm.ErrRecordNotFound)
	})
}
