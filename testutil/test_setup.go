// Package testutil はテスト用のデータベースとルーターを提供します。
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"planedge/backend/internal/config"
	"planedge/backend/internal/database"
	"planedge/backend/internal/models"
	"planedge/backend/internal/repositories"
	"planedge/backend/internal/routes"
)

// TestJWTSecret はテスト用ルーターが使うJWTシークレットです。
const TestJWTSecret = "test-secret"

// NewTestDB はインメモリのSQLiteデータベースを作成し、スキーマを適用します。
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
	return db
}

// TestConfig はテスト用の設定を返します。
func TestConfig() *config.Config {
	return &config.Config{
		DBDriver:      database.DriverSQLite,
		JWTSecret:     TestJWTSecret,
		CORSOrigins:   []string{"http://localhost:3000"},
		APIRateLimit:  1000,
		APIRateWindow: time.Minute,
		PerPage:       models.DefaultPerPage,
	}
}

// SetupTestDB はテスト用のデータベース接続を確立し、テストユーザーを投入してルーターを返します。
// normal_user@example.com (ID 1) と other_user@example.com (ID 2) が作成されます。
func SetupTestDB(t *testing.T) (*database.DB, *gin.Engine, *repositories.TaskRepository, *repositories.UserRepository) {
	t.Helper()
	db := NewTestDB(t)

	userRepo := repositories.NewUserRepository(db)
	CreateTestUser(t, userRepo, "Normal User", "normal_user@example.com", "password123")
	CreateTestUser(t, userRepo, "Other User", "other_user@example.com", "password123")

	router := SetupTestRouter(t, db)
	return db, router, repositories.NewTaskRepository(db), userRepo
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。フラッシュはCookieで保持されます。
func SetupTestRouter(t *testing.T, db *database.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db, TestConfig(), nil)
}

// CreateTestUser はテストユーザーをリポジトリ経由で作成します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, name, email, password string) *models.User {
	t.Helper()
	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	createdUser, err := userRepo.Create(context.Background(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	require.NotZero(t, createdUser.ID)
	return createdUser
}

// SeedUser はパスワード "password123" のユーザーを作成します。
func SeedUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()
	return CreateTestUser(t, repositories.NewUserRepository(db), email, email, "password123")
}

// SeedProject はプロジェクトを直接作成します。
func SeedProject(t *testing.T, db *database.DB, userID int, title string) *models.Project {
	t.Helper()
	p, err := repositories.NewProjectRepository(db).Create(context.Background(), &models.Project{UserID: userID, Title: title})
	require.NoError(t, err)
	return p
}

// SeedTask はタスクを直接作成します。
func SeedTask(t *testing.T, db *database.DB, projectID int, title string, completed bool) *models.Task {
	t.Helper()
	task, err := repositories.NewTaskRepository(db).Create(context.Background(), &models.Task{
		ProjectID:   projectID,
		Title:       title,
		IsCompleted: completed,
	})
	require.NoError(t, err)
	return task
}

// DoJSON はJSONボディ付きのリクエストをルーターに送ります。
func DoJSON(router *gin.Engine, method, path, token string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// CreateTestProject はAPI経由でプロジェクトを作成します。
func CreateTestProject(t *testing.T, router *gin.Engine, token, title string) *models.Project {
	t.Helper()
	resp := DoJSON(router, http.MethodPost, "/api/projects", token, map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, resp.Code, "プロジェクト作成に失敗しました: %s", resp.Body.String())

	var body struct {
		Data models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return &body.Data
}

// CreateTestTask はAPI経由でタスクを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, token string, projectID int, title string, completed bool) *models.Task {
	t.Helper()
	payload := map[string]any{
		"title":        title,
		"project_id":   projectID,
		"is_completed": completed,
	}
	resp := DoJSON(router, http.MethodPost, "/api/tasks", token, payload)
	require.Equal(t, http.StatusCreated, resp.Code, "タスク作成に失敗しました: %s", resp.Body.String())

	var body struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return &body.Data
}

// LoginAndGetToken はログインしてJWTトークンを取得します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()
	resp := DoJSON(router, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	token, ok := loginRes["token"].(string)
	if !ok {
		return "", errors.New("token not found or not a string in login response")
	}
	return token, nil
}
