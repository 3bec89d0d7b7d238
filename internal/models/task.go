package models

import "time"

// Task はプロジェクトに属するタスクです。所有者はプロジェクトの所有者です。
type Task struct {
	ID          int            `json:"id"`
	ProjectID   int            `json:"project_id"`
	UserID      int            `json:"-"` // projects.user_id から取得
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	DueDate     *Date          `json:"due_date"`
	IsCompleted bool           `json:"is_completed"`
	Project     ProjectSummary `json:"project"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// OwnerID はタスクの所有者ID (= プロジェクトの所有者) を返します。
func (t *Task) OwnerID() int { return t.UserID }

// TaskRequest はタスク作成・更新フォームのスキーマです。
// due_date は "YYYY-MM-DD" 形式の文字列で受け取ります。
type TaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ProjectID   int    `json:"project_id" binding:"required,gt=0"`
	IsCompleted bool   `json:"is_completed"`
}

// TaskListQuery はタスク一覧のクエリパラメータです。
type TaskListQuery struct {
	Search string `form:"search"`
	Filter string `form:"filter"`
	Page   int    `form:"page"`
}

// TaskStats はダッシュボード用の集計値です。
type TaskStats struct {
	TotalProjects  int `json:"totalProjects"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	PendingTasks   int `json:"pendingTasks"`
}
