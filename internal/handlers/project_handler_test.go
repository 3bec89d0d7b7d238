package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planedge/backend/internal/flash"
	"planedge/backend/internal/models"
	"planedge/backend/testutil"
)

func TestProjectCRUD(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, router, "normal_user@example.com", "password123")
	require.NoError(t, err)

	project := testutil.CreateTestProject(t, router, token, "Launch")
	assert.Equal(t, 1, project.UserID)
	path := fmt.Sprintf("/api/projects/%d", project.ID)

	resp := testutil.DoJSON(router, http.MethodPut, path, token, map[string]any{"title": "Launch v2", "description": "second try"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated struct {
		Data models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "Launch v2", updated.Data.Title)
	require.NotNil(t, updated.Data.Description)
	assert.Equal(t, "second try", *updated.Data.Description)

	testutil.SeedTask(t, db, project.ID, "a", false)
	testutil.SeedTask(t, db, project.ID, "b", true)

	resp = testutil.DoJSON(router, http.MethodGet, "/api/projects", token, nil, flashCookie(resp))
	require.Equal(t, http.StatusOK, resp.Code)
	var index struct {
		Projects []models.Project `json:"projects"`
		Flash    flash.Message    `json:"flash"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &index))
	require.Len(t, index.Projects, 1)
	assert.Equal(t, 2, index.Projects[0].TaskCount)
	assert.Equal(t, "Project updated successfully.", index.Flash.Success)

	resp = testutil.DoJSON(router, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = testutil.DoJSON(router, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"data":null}`, resp.Body.String())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tasks WHERE project_id = ?", project.ID).Scan(&count))
	assert.Zero(t, count, "プロジェクトのタスクも削除される")

	resp = testutil.DoJSON(router, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProjectCreate_Validation(t *testing.T) {
	_, router, _, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, router, "normal_user@example.com", "password123")
	require.NoError(t, err)

	resp := testutil.DoJSON(router, http.MethodPost, "/api/projects", token, map[string]any{"description": "no title"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.JSONEq(t, `{"errors":{"title":"The title field is required."}}`, resp.Body.String())
}

func TestProject_OwnershipIsNotFound(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, router, "normal_user@example.com", "password123")
	require.NoError(t, err)

	theirs := testutil.SeedProject(t, db, 2, "Theirs")
	path := fmt.Sprintf("/api/projects/%d", theirs.ID)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := testutil.DoJSON(router, method, path, token, map[string]any{"title": "mine"})
		assert.Equal(t, http.StatusNotFound, resp.Code, method)
	}

	resp := testutil.DoJSON(router, http.MethodGet, "/api/projects", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"projects":[],"flash":{}}`, resp.Body.String())
}

func TestDashboardStats(t *testing.T) {
	db, router, _, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, router, "normal_user@example.com", "password123")
	require.NoError(t, err)

	p := testutil.SeedProject(t, db, 1, "A")
	testutil.SeedProject(t, db, 1, "B")
	testutil.SeedTask(t, db, p.ID, "done", true)
	testutil.SeedTask(t, db, p.ID, "todo", false)
	testutil.SeedTask(t, db, p.ID, "todo 2", false)
	testutil.SeedTask(t, db, testutil.SeedProject(t, db, 2, "Other").ID, "not mine", true)

	resp := testutil.DoJSON(router, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"stats":{"totalProjects":2,"totalTasks":3,"completedTasks":1,"pendingTasks":2}}`, resp.Body.String())
}
