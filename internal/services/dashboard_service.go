package services

import (
	"context"

	"planedge/backend/internal/models"
)

// DashboardService はダッシュボードの集計を扱います。
type DashboardService struct {
	tasks    TaskStore
	projects ProjectStore
}

// NewDashboardService は新しいDashboardServiceを作成します。
func NewDashboardService(tasks TaskStore, projects ProjectStore) *DashboardService {
	return &DashboardService{tasks: tasks, projects: projects}
}

// Stats はユーザーのプロジェクト数とタスクの完了状況を返します。
func (s *DashboardService) Stats(ctx context.Context, userID int) (*models.TaskStats, error) {
	projects, err := s.projects.CountByUserID(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "count projects", Err: err}
	}
	total, completed, err := s.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "count tasks", Err: err}
	}
	return &models.TaskStats{
		TotalProjects:  projects,
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
	}, nil
}
