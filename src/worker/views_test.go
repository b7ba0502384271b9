package worker_test

import (
	"context"
	"dashboard/src/config"
	"dashboard/src/database/dbtest"
	"dashboard/src/models"
	"dashboard/src/schemas"
	"dashboard/src/utils"
	"dashboard/src/worker"
	"dashboard/src/worker/controllers"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *controllers.Controller, time.Time) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Service.RequestTimeout = 5 * time.Second
	cfg.Worker.PruneCron = "@every 1h"

	db := dbtest.New(t)
	now := time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)

	user := &models.User{Username: "ann", Password: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	report := &models.Report{Name: "Ops", Cadence: "Daily"}
	require.NoError(t, db.Create(report).Error)
	require.NoError(t, db.Create(&models.UserReportAccess{UserID: user.ID, ReportID: report.ID, Role: models.RoleView, ExpiresAt: &expired}).Error)

	ctrl := controllers.NewController(db, utils.NewDiscardLogger())
	ctrl.Now = func() time.Time { return now }

	ts := httptest.NewServer(worker.NewServerWithController(ctrl, cfg, utils.NewDiscardLogger()))
	t.Cleanup(ts.Close)
	return ts, ctrl, now
}

func TestAlive(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/alive")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Im alive!", string(body))
}

func TestPruneGrants(t *testing.T) {
	ts, ctrl, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/grants/prune", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pruned schemas.PruneResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pruned))
	assert.Equal(t, int64(1), pruned.Deleted)

	deleted, err := ctrl.PruneExpiredGrants(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestPruneStatus(t *testing.T) {
	ts, ctrl, _ := newTestServer(t)

	getStatus := func() schemas.PruneStatusResponse {
		resp, err := http.Get(ts.URL + "/api/grants/prune")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var status schemas.PruneStatusResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		return status
	}

	status := getStatus()
	assert.Equal(t, "@every 1h", status.Schedule)
	assert.Nil(t, status.NextRun)

	require.NoError(t, ctrl.SchedulePruning("@every 1h", time.Second))
	t.Cleanup(ctrl.StopPruning)

	status = getStatus()
	require.NotNil(t, status.NextRun)
	assert.True(t, status.NextRun.After(time.Now()))
}
