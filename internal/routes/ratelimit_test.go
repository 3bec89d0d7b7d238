package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planedge/backend/internal/routes"
)

func redisClientFromEnv(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	t.Cleanup(func() { client.Close() })
	return client
}

func limitedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func limitedRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = ip + ":40000"
	return req
}

// REDIS_ADDR が設定されている場合のみ実行します。
func TestRedisRateLimit_SetsWindowExpiry(t *testing.T) {
	client := redisClientFromEnv(t)
	ctx := context.Background()
	key := "rl:60:198.51.100.7"
	require.NoError(t, client.Del(ctx, key).Err())
	t.Cleanup(func() { client.Del(context.Background(), key) })

	r := limitedRouter(routes.RedisRateLimit(client, 2, time.Minute))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, limitedRequest("198.51.100.7"))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, limitedRequest("198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

// REDIS_ADDR が設定されている場合のみ実行します。
func TestRedisRateLimit_RepairsKeyWithoutExpiry(t *testing.T) {
	client := redisClientFromEnv(t)
	ctx := context.Background()
	key := "rl:60:198.51.100.8"
	// EXPIREが失敗した後の状態: カウンタだけが残っている
	require.NoError(t, client.Set(ctx, key, 5, 0).Err())
	t.Cleanup(func() { client.Del(context.Background(), key) })

	r := limitedRouter(routes.RedisRateLimit(client, 2, time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, limitedRequest("198.51.100.8"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "期限のないキーには次のリクエストで期限を付け直す")
}

func TestRedisRateLimit_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	r := limitedRouter(routes.RedisRateLimit(client, 1, time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, limitedRequest("198.51.100.9"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "redis-error", w.Header().Get("X-RateLimit-Error"))
}
