// Package handlers はHTTPリクエストを処理するハンドラーを提供します。
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"planedge/backend/internal/flash"
	"planedge/backend/internal/logger"
	"planedge/backend/internal/presenter"
	"planedge/backend/internal/services"
)

const genericErrorMessage = "Something went wrong. Please try again."

// currentUserID はAuthMiddlewareが設定したユーザーIDを取得します。
func currentUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return 0, false
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}

// pathID はURLの :id を整数として取得します。
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

// putFlash はフラッシュを保存します。保存に失敗してもレスポンスは返します。
func putFlash(c *gin.Context, store flash.Store, m flash.Message) {
	if err := store.Put(c, m); err != nil {
		logger.Warn("failed to store flash message", "error", err, "path", c.FullPath())
	}
}

// popFlash は保存されたフラッシュを取り出します。
func popFlash(c *gin.Context, store flash.Store) *flash.Message {
	msg, err := store.Pop(c)
	if err != nil {
		logger.Warn("failed to pop flash message", "error", err, "path", c.FullPath())
		return nil
	}
	return msg
}

// respondMutation は変更系の成功レスポンスを返します。
// フラッシュは本文に含めず、次回の一覧取得でだけ表示されるよう保存します。
func respondMutation(c *gin.Context, store flash.Store, status int, data any, message string) {
	putFlash(c, store, flash.Success(message))
	c.JSON(status, presenter.Mutation(data))
}

// respondError はサービスのエラーをHTTPステータスに変換します。
func respondError(c *gin.Context, store flash.Store, err error, notFoundMessage string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
	case errors.Is(err, services.ErrNotFound):
		putFlash(c, store, flash.Error(notFoundMessage))
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	default:
		logger.Error("request failed", "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
		putFlash(c, store, flash.Error(genericErrorMessage))
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
	}
}
