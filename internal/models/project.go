package models

import "time"

// Project はタスクをまとめるプロジェクトです。
type Project struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	TaskCount   int       `json:"project_count"` // 一覧表示用のタスク数
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID はプロジェクトの所有者IDを返します。
func (p *Project) OwnerID() int { return p.UserID }

// ProjectSummary はタスク一覧やセレクトボックスで使う最小限のプロジェクト情報です。
type ProjectSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ProjectRequest はプロジェクト作成・更新フォームのスキーマです。
type ProjectRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}
