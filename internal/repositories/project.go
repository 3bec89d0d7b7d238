package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"planedge/backend/internal/database"
	"planedge/backend/internal/logger"
	"planedge/backend/internal/models"
)

// ErrProjectNotFound はプロジェクトが見つからない (または所有者が異なる) 場合のエラーです。
var ErrProjectNotFound = errors.New("project not found")

const projectColumns = `p.id, p.user_id, p.title, p.description, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count`

// ProjectRepository はプロジェクトテーブルを操作します。
type ProjectRepository struct {
	DB *database.DB
}

// NewProjectRepository は新しいProjectRepositoryを作成します。
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var desc sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &desc, &p.CreatedAt, &p.UpdatedAt, &p.TaskCount); err != nil {
		return nil, err
	}
	p.Description = stringPtr(desc)
	return &p, nil
}

// Create は新しいプロジェクトを挿入します。
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query := "INSERT INTO projects (user_id, title, description) VALUES (?, ?, ?)"
	id, err := r.DB.Insert(ctx, query, p.UserID, p.Title, nullString(p.Description))
	if err != nil {
		logger.Error("failed to insert project", "error", err)
		return nil, fmt.Errorf("could not insert project: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindByID は指定IDのプロジェクトを取得します。所有者の確認は呼び出し側で行います。
func (r *ProjectRepository) FindByID(ctx context.Context, id int) (*models.Project, error) {
	query := r.DB.Rebind("SELECT " + projectColumns + " FROM projects p WHERE p.id = ?")
	p, err := scanProject(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		logger.Error("failed to query project by ID", "error", err)
		return nil, fmt.Errorf("could not query project: %w", err)
	}
	return p, nil
}

// FindByUserID はユーザーの全プロジェクトをタスク数付きで取得します。
func (r *ProjectRepository) FindByUserID(ctx context.Context, userID int) ([]*models.Project, error) {
	query := r.DB.Rebind("SELECT " + projectColumns + " FROM projects p WHERE p.user_id = ? ORDER BY p.id ASC")
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("failed to query projects", "error", err)
		return nil, fmt.Errorf("could not query projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// SummariesByUserID はセレクトボックス用に id と title だけを取得します。
func (r *ProjectRepository) SummariesByUserID(ctx context.Context, userID int) ([]models.ProjectSummary, error) {
	query := r.DB.Rebind("SELECT id, title FROM projects WHERE user_id = ? ORDER BY title ASC, id ASC")
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query projects: %w", err)
	}
	defer rows.Close()

	summaries := []models.ProjectSummary{}
	for rows.Next() {
		var s models.ProjectSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("could not scan project: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CountByUserID はユーザーのプロジェクト数を返します。
func (r *ProjectRepository) CountByUserID(ctx context.Context, userID int) (int, error) {
	var n int
	query := r.DB.Rebind("SELECT COUNT(*) FROM projects WHERE user_id = ?")
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("could not count projects: %w", err)
	}
	return n, nil
}

// Update はプロジェクトのタイトルと説明を置き換えます。
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	query := r.DB.Rebind("UPDATE projects SET title = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?")
	result, err := r.DB.ExecContext(ctx, query, p.Title, nullString(p.Description), p.ID, p.UserID)
	if err != nil {
		logger.Error("failed to update project", "error", err)
		return nil, fmt.Errorf("could not update project: %w", err)
	}

	// 更新された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrProjectNotFound
	}
	return r.FindByID(ctx, p.ID)
}

// Delete はプロジェクトとそのタスクを1トランザクションで削除します。
func (r *ProjectRepository) Delete(ctx context.Context, id, userID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteTasks := r.DB.Rebind("DELETE FROM tasks WHERE project_id IN (SELECT id FROM projects WHERE id = ? AND user_id = ?)")
	if _, err := tx.ExecContext(ctx, deleteTasks, id, userID); err != nil {
		logger.Error("failed to delete project tasks", "error", err)
		return fmt.Errorf("could not delete project tasks: %w", err)
	}

	result, err := tx.ExecContext(ctx, r.DB.Rebind("DELETE FROM projects WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		logger.Error("failed to delete project", "error", err)
		return fmt.Errorf("could not delete project: %w", err)
	}

	// 削除された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProjectNotFound
	}
	return tx.Commit()
}
