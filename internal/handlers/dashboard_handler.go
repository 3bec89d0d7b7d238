package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planedge/backend/internal/logger"
	"planedge/backend/internal/presenter"
	"planedge/backend/internal/services"
)

// DashboardHandler はダッシュボードの集計を返します。
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler は新しいDashboardHandlerを作成します。
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) StatsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Stats(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to load dashboard stats", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
		return
	}
	c.JSON(http.StatusOK, presenter.Dashboard(stats))
}
