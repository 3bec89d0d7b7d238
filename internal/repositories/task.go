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

// ErrTaskNotFound はタスクが見つからない (または所有者が異なる) 場合のエラーです。
var ErrTaskNotFound = errors.New("task not found")

const (
	taskColumns = `t.id, t.project_id, p.user_id, t.title, t.description, t.due_date, t.is_completed,
	p.title, t.created_at, t.updated_at`
	taskFrom = " FROM tasks t JOIN projects p ON p.id = t.project_id"
)

// TaskRepository はタスクテーブルを操作します。
type TaskRepository struct {
	DB *database.DB
}

// NewTaskRepository は新しいTaskRepositoryを作成します。
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var desc sql.NullString
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.ProjectID, &t.UserID, &t.Title, &desc, &due, &t.IsCompleted,
		&t.Project.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Description = stringPtr(desc)
	t.DueDate = datePtr(due)
	t.Project.ID = t.ProjectID
	return &t, nil
}

// Create は新しいタスクを挿入します。
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	query := "INSERT INTO tasks (project_id, title, description, due_date, is_completed) VALUES (?, ?, ?, ?, ?)"
	id, err := r.DB.Insert(ctx, query, t.ProjectID, t.Title, nullString(t.Description), nullDate(t.DueDate), t.IsCompleted)
	if err != nil {
		logger.Error("failed to insert task", "error", err)
		return nil, fmt.Errorf("could not insert task: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindByID は指定IDのタスクをプロジェクト情報付きで取得します。
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	query := r.DB.Rebind("SELECT " + taskColumns + taskFrom + " WHERE t.id = ?")
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		logger.Error("failed to query task by ID", "error", err)
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// List は検索・絞り込み・ページネーションを適用したタスク一覧を返します。
// 並び順は id の昇順です。範囲外のページは最も近い有効なページに丸めます。
func (r *TaskRepository) List(ctx context.Context, q TaskQuery) (*models.TaskPage, error) {
	where, args := q.where()

	var total int
	countQuery := r.DB.Rebind("SELECT COUNT(*)" + taskFrom + where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("failed to count tasks", "error", err)
		return nil, fmt.Errorf("could not count tasks: %w", err)
	}

	meta := models.NewPageMeta(total, q.PerPage, q.Page)
	page := &models.TaskPage{Data: []*models.Task{}, PageMeta: meta}
	if total == 0 {
		return page, nil
	}

	listQuery := r.DB.Rebind("SELECT " + taskColumns + taskFrom + where + " ORDER BY t.id ASC LIMIT ? OFFSET ?")
	rows, err := r.DB.QueryContext(ctx, listQuery, append(args, meta.PerPage, meta.Offset())...)
	if err != nil {
		logger.Error("failed to query tasks", "error", err)
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("failed to scan task", "error", err)
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		page.Data = append(page.Data, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return page, nil
}

// Update はタスクの可変フィールドをすべて置き換えます。
// 移動先のプロジェクトも含めて所有者のスコープ内でのみ更新します。
func (r *TaskRepository) Update(ctx context.Context, userID int, t *models.Task) (*models.Task, error) {
	query := r.DB.Rebind(`UPDATE tasks SET project_id = ?, title = ?, description = ?, due_date = ?, is_completed = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND project_id IN (SELECT id FROM projects WHERE user_id = ?)`)
	result, err := r.DB.ExecContext(ctx, query,
		t.ProjectID, t.Title, nullString(t.Description), nullDate(t.DueDate), t.IsCompleted, t.ID, userID)
	if err != nil {
		logger.Error("failed to update task", "error", err)
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	// 更新された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByID(ctx, t.ID)
}

// Delete は指定IDのタスクを削除します。
func (r *TaskRepository) Delete(ctx context.Context, id, userID int) error {
	query := r.DB.Rebind("DELETE FROM tasks WHERE id = ? AND project_id IN (SELECT id FROM projects WHERE user_id = ?)")
	result, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		logger.Error("failed to delete task", "error", err)
		return fmt.Errorf("could not delete task: %w", err)
	}

	// 削除された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CountByStatus はユーザーのタスク総数と完了数を返します。
func (r *TaskRepository) CountByStatus(ctx context.Context, userID int) (total, completed int, err error) {
	query := r.DB.Rebind(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN t.is_completed THEN 1 ELSE 0 END), 0)` +
		taskFrom + " WHERE p.user_id = ?")
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&total, &completed); err != nil {
		logger.Error("failed to count tasks by status", "error", err)
		return 0, 0, fmt.Errorf("could not count tasks: %w", err)
	}
	return total, completed, nil
}
