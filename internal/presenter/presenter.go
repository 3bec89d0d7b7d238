// Package presenter はサービスの結果を画面表示用のビューモデルに整形します。
package presenter

import (
	"planedge/backend/internal/flash"
	"planedge/backend/internal/models"
)

// Filters は一覧画面に返す検索条件です。
type Filters struct {
	Search string `json:"search"`
	Filter string `json:"filter"`
}

// TaskList はタスクのページとページネーション情報です。
type TaskList struct {
	Data []*models.Task `json:"data"`
	models.PageMeta
}

// TaskIndexView はタスク一覧画面のビューモデルです。
type TaskIndexView struct {
	Tasks    TaskList                `json:"tasks"`
	Projects []models.ProjectSummary `json:"projects"`
	Filters  Filters                 `json:"filters"`
	Flash    flash.Message           `json:"flash"`
}

// ProjectIndexView はプロジェクト一覧画面のビューモデルです。
type ProjectIndexView struct {
	Projects []*models.Project `json:"projects"`
	Flash    flash.Message     `json:"flash"`
}

// DashboardView はダッシュボードのビューモデルです。
type DashboardView struct {
	Stats models.TaskStats `json:"stats"`
}

// MutationView は作成・更新・削除のレスポンスです。
// フラッシュは一覧のビューモデルでだけ返します。
type MutationView struct {
	Data any `json:"data"`
}

// TaskIndex はタスク一覧のビューモデルを組み立てます。
// 絞り込みは正規化した値を返すため、不明な値は "all" になります。
func TaskIndex(page *models.TaskPage, projects []models.ProjectSummary, search string, filter models.TaskFilter, msg *flash.Message) TaskIndexView {
	view := TaskIndexView{
		Tasks:    TaskList{Data: []*models.Task{}, PageMeta: models.NewPageMeta(0, models.DefaultPerPage, 1)},
		Projects: []models.ProjectSummary{},
		Filters:  Filters{Search: search, Filter: string(filter)},
		Flash:    single(msg),
	}
	if view.Filters.Filter == "" {
		view.Filters.Filter = string(models.FilterAll)
	}
	if page != nil {
		view.Tasks.PageMeta = page.PageMeta
		if page.Data != nil {
			view.Tasks.Data = page.Data
		}
	}
	if projects != nil {
		view.Projects = projects
	}
	return view
}

// ProjectIndex はプロジェクト一覧のビューモデルを組み立てます。
func ProjectIndex(projects []*models.Project, msg *flash.Message) ProjectIndexView {
	if projects == nil {
		projects = []*models.Project{}
	}
	return ProjectIndexView{Projects: projects, Flash: single(msg)}
}

// Dashboard はダッシュボードのビューモデルを組み立てます。
func Dashboard(stats *models.TaskStats) DashboardView {
	if stats == nil {
		return DashboardView{}
	}
	return DashboardView{Stats: *stats}
}

// Mutation は変更系のレスポンスを組み立てます。
func Mutation(data any) MutationView {
	return MutationView{Data: data}
}

// single は成功とエラーが両方ある場合、エラーを優先します。
func single(msg *flash.Message) flash.Message {
	if msg == nil {
		return flash.Message{}
	}
	if msg.Error != "" {
		return flash.Message{Error: msg.Error}
	}
	return flash.Message{Success: msg.Success}
}
