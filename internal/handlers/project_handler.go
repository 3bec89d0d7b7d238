package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planedge/backend/internal/flash"
	"planedge/backend/internal/models"
	"planedge/backend/internal/presenter"
	"planedge/backend/internal/services"
)

// ProjectHandler はProject関連のハンドラーを管理します。
type ProjectHandler struct {
	projectService *services.ProjectService
	flash          flash.Store
}

// NewProjectHandler は新しいProjectHandlerを作成します。
func NewProjectHandler(projectService *services.ProjectService, store flash.Store) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, flash: store}
}

// IndexHandler はユーザーのプロジェクト一覧をタスク数付きで返します。
func (h *ProjectHandler) IndexHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}
	c.JSON(http.StatusOK, presenter.ProjectIndex(projects, popFlash(c, h.flash)))
}

// ShowHandler は指定IDのプロジェクトを返します。
func (h *ProjectHandler) ShowHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateHandler は新しいプロジェクトを作成します。
func (h *ProjectHandler) CreateHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}
	respondMutation(c, h.flash, http.StatusCreated, project, "Project created successfully.")
}

// UpdateHandler はプロジェクトを更新します。
func (h *ProjectHandler) UpdateHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}
	respondMutation(c, h.flash, http.StatusOK, project, "Project updated successfully.")
}

// DeleteHandler はプロジェクトとそのタスクを削除します。
func (h *ProjectHandler) DeleteHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.flash, err, "Project not found.")
		return
	}
	respondMutation(c, h.flash, http.StatusOK, nil, "Project deleted successfully.")
}
