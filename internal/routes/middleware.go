package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planedge/backend/internal/logger"
	"planedge/backend/internal/services"
)

// RequestIDHeader はリクエストIDを運ぶヘッダー名です。
const RequestIDHeader = "X-Request-ID"

// コンテキストに設定する認証済みユーザーのキーです。
const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
)

// 認証失敗時にクライアントへ返すメッセージです。
const (
	authMissingHeader = "Authorization header required"
	authBadFormat     = "Invalid token format"
	authBadToken      = "Invalid or expired token"
)

// bearerToken は Authorization ヘッダーからトークンを取り出します。
// 取り出せない場合は拒否理由を返します。
func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", authMissingHeader
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", authBadFormat
	}
	return token, ""
}

// AuthMiddleware はBearerトークンのJWTを検証し、ユーザーIDとメールアドレスをコンテキストに設定します。
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, reason := bearerToken(c.GetHeader("Authorization"))
		if reason == "" {
			claims, err := jwtService.ValidateToken(token)
			if err == nil {
				c.Set(ctxUserID, int(claims.UserID))
				c.Set(ctxUserEmail, claims.Email)
				c.Next()
				return
			}
			logger.Debug("rejected token", "error", err, "request_id", c.GetString("request_id"))
			reason = authBadToken
		}
		authRejected.WithLabelValues(reason).Inc()
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
	}
}

// RequestID はリクエストごとにIDを割り当てます。クライアントが送ったIDはそのまま使います。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
