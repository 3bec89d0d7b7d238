// Package services はビジネスロジックを扱います。
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"planedge/backend/internal/models"
	"planedge/backend/internal/repositories"
)

const maxTitleLength = 255

// TaskService はTask関連のビジネスロジックを扱います。
type TaskService struct {
	tasks    TaskStore
	projects ProjectStore
	perPage  int
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(tasks TaskStore, projects ProjectStore, perPage int) *TaskService {
	if perPage <= 0 {
		perPage = models.DefaultPerPage
	}
	return &TaskService{tasks: tasks, projects: projects, perPage: perPage}
}

// List はユーザーのタスクを検索・絞り込みしてページ単位で返します。
func (s *TaskService) List(ctx context.Context, userID int, search string, filter models.TaskFilter, page int) (*models.TaskPage, error) {
	result, err := s.tasks.List(ctx, repositories.TaskQuery{
		UserID:  userID,
		Search:  search,
		Filter:  filter,
		Page:    page,
		PerPage: s.perPage,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "list tasks", Err: err}
	}
	return result, nil
}

// Get は指定IDのタスクを取得し、認可チェックを行います。
func (s *TaskService) Get(ctx context.Context, userID, id int) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find task", err, repositories.ErrTaskNotFound)
	}
	if !canAccess(userID, task) {
		return nil, storeError("find task", repositories.ErrTaskNotFound, repositories.ErrTaskNotFound)
	}
	return task, nil
}

// Create は新しいTaskを作成します。プロジェクトはユーザーの所有でなければなりません。
func (s *TaskService) Create(ctx context.Context, userID int, in models.TaskRequest) (*models.Task, error) {
	task, err := s.validate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, &PersistenceError{Op: "create task", Err: err}
	}
	return created, nil
}

// Update はTaskの可変フィールドをすべて置き換えます。
func (s *TaskService) Update(ctx context.Context, userID, id int, in models.TaskRequest) (*models.Task, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	task, err := s.validate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	task.ID = id

	updated, err := s.tasks.Update(ctx, userID, task)
	if err != nil {
		return nil, storeError("update task", err, repositories.ErrTaskNotFound)
	}
	return updated, nil
}

// Delete はTaskを削除します。論理削除はしません。
func (s *TaskService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return storeError("delete task", err, repositories.ErrTaskNotFound)
	}
	return nil
}

// validate はフォームの入力を検証し、保存用のTaskを組み立てます。
func (s *TaskService) validate(ctx context.Context, userID int, in models.TaskRequest) (*models.Task, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		verr.add("title", "The title field is required.")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.add("title", "The title field must not be greater than 255 characters.")
	}

	task := &models.Task{
		ProjectID:   in.ProjectID,
		Title:       title,
		IsCompleted: in.IsCompleted,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		task.Description = &desc
	}
	if due := strings.TrimSpace(in.DueDate); due != "" {
		d, err := models.ParseDate(due)
		if err != nil {
			verr.add("due_date", "The due date field must match the format Y-m-d.")
		} else {
			task.DueDate = &d
		}
	}

	if in.ProjectID <= 0 {
		verr.add("project_id", "The project id field is required.")
	} else {
		project, err := s.projects.FindByID(ctx, in.ProjectID)
		switch {
		case errors.Is(err, repositories.ErrProjectNotFound):
			verr.add("project_id", "The selected project id is invalid.")
		case err != nil:
			return nil, &PersistenceError{Op: "find project", Err: err}
		case !canAccess(userID, project):
			verr.add("project_id", "The selected project id is invalid.")
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return task, nil
}
