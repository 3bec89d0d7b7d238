package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"planedge/backend/internal/models"
	"planedge/backend/internal/repositories"
)

// ProjectService はProject関連のビジネスロジックを扱います。
type ProjectService struct {
	projects ProjectStore
}

// NewProjectService は新しいProjectServiceを作成します。
func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

// List はユーザーの全プロジェクトをタスク数付きで返します。
func (s *ProjectService) List(ctx context.Context, userID int) ([]*models.Project, error) {
	projects, err := s.projects.FindByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list projects", Err: err}
	}
	return projects, nil
}

// Summaries はタスクフォームのセレクトボックス用の一覧を返します。
func (s *ProjectService) Summaries(ctx context.Context, userID int) ([]models.ProjectSummary, error) {
	summaries, err := s.projects.SummariesByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list project summaries", Err: err}
	}
	return summaries, nil
}

// Get は指定IDのプロジェクトを取得し、認可チェックを行います。
func (s *ProjectService) Get(ctx context.Context, userID, id int) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find project", err, repositories.ErrProjectNotFound)
	}
	if !canAccess(userID, project) {
		return nil, storeError("find project", repositories.ErrProjectNotFound, repositories.ErrProjectNotFound)
	}
	return project, nil
}

// Create は新しいプロジェクトを作成します。
func (s *ProjectService) Create(ctx context.Context, userID int, in models.ProjectRequest) (*models.Project, error) {
	project, err := validateProject(in)
	if err != nil {
		return nil, err
	}
	project.UserID = userID

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, &PersistenceError{Op: "create project", Err: err}
	}
	return created, nil
}

// Update はプロジェクトのタイトルと説明を置き換えます。
func (s *ProjectService) Update(ctx context.Context, userID, id int, in models.ProjectRequest) (*models.Project, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	project, err := validateProject(in)
	if err != nil {
		return nil, err
	}
	project.ID = id
	project.UserID = userID // 元の所有者を保持

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, storeError("update project", err, repositories.ErrProjectNotFound)
	}
	return updated, nil
}

// Delete はプロジェクトとその全タスクを削除します。
func (s *ProjectService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id, userID); err != nil {
		return storeError("delete project", err, repositories.ErrProjectNotFound)
	}
	return nil
}

func validateProject(in models.ProjectRequest) (*models.Project, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.add("title", "The title field is required.")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.add("title", "The title field must not be greater than 255 characters.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	project := &models.Project{Title: title}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		project.Description = &desc
	}
	return project, nil
}
