package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planedge/backend/internal/flash"
	"planedge/backend/internal/models"
	"planedge/backend/internal/presenter"
	"planedge/backend/internal/services"
)

// TaskHandler はTask関連のハンドラーを管理します。
type TaskHandler struct {
	taskService    *services.TaskService
	projectService *services.ProjectService
	flash          flash.Store
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService, projectService *services.ProjectService, store flash.Store) *TaskHandler {
	return &TaskHandler{taskService: taskService, projectService: projectService, flash: store}
}

// IndexHandler は検索・絞り込み・ページ指定付きでタスク一覧を返します。
func (h *TaskHandler) IndexHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var q models.TaskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		// 数値でないページ指定は1ページ目として扱う
		q = models.TaskListQuery{Search: c.Query("search"), Filter: c.Query("filter"), Page: 1}
	}
	filter := models.ParseTaskFilter(q.Filter)

	page, err := h.taskService.List(c.Request.Context(), userID, q.Search, filter, q.Page)
	if err != nil {
		respondError(c, h.flash, err, "Task not found.")
		return
	}
	projects, err := h.projectService.Summaries(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}

	c.JSON(http.StatusOK, presenter.TaskIndex(page, projects, q.Search, filter, popFlash(c, h.flash)))
}

// ShowHandler は指定IDのタスクを返します。
func (h *TaskHandler) ShowHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.flash, err, "Task not found.")
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateHandler は新しいタスクを作成します。
func (h *TaskHandler) CreateHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.TaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}
	respondMutation(c, h.flash, http.StatusCreated, task, "Task created successfully.")
}

// UpdateHandler はタスクを更新します。
func (h *TaskHandler) UpdateHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.TaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, h.flash, err, "Task not found.")
		return
	}
	respondMutation(c, h.flash, http.StatusOK, task, "Task updated successfully.")
}

// DeleteHandler はタスクを削除します。
func (h *TaskHandler) DeleteHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.flash, err, "Task not found.")
		return
	}
	respondMutation(c, h.flash, http.StatusOK, nil, "Task deleted successfully.")
}
