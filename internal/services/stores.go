package services

import (
	"context"

	"planedge/backend/internal/models"
	"planedge/backend/internal/repositories"
)

// TaskStore はタスクの永続化を抽象化します。
type TaskStore interface {
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	FindByID(ctx context.Context, id int) (*models.Task, error)
	List(ctx context.Context, q repositories.TaskQuery) (*models.TaskPage, error)
	Update(ctx context.Context, userID int, t *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id, userID int) error
	CountByStatus(ctx context.Context, userID int) (total, completed int, err error)
}

// ProjectStore はプロジェクトの永続化を抽象化します。
type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	FindByID(ctx context.Context, id int) (*models.Project, error)
	FindByUserID(ctx context.Context, userID int) ([]*models.Project, error)
	SummariesByUserID(ctx context.Context, userID int) ([]models.ProjectSummary, error)
	CountByUserID(ctx context.Context, userID int) (int, error)
	Update(ctx context.Context, p *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id, userID int) error
}

var (
	_ TaskStore    = (*repositories.TaskRepository)(nil)
	_ ProjectStore = (*repositories.ProjectRepository)(nil)
)
