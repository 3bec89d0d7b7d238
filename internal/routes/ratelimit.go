package routes

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"planedge/backend/internal/logger"
)

// rateLimitKey はRedisのキー rl:<window_seconds>:<client_ip> を組み立てます。
func rateLimitKey(window time.Duration, ip string) string {
	return "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ip
}

// RedisRateLimit はRedisのINCR/EXPIREによる固定ウィンドウのレート制限です。
// Redisのエラー時はリクエストを通します。
func RedisRateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(window, c.ClientIP())
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		// 有効期限のないキーは新規か、前回のEXPIREが失敗したもの
		if ttl.Val() < 0 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("failed to set rate limit window", "error", err, "key", key)
			}
		}

		if incr.Val() > int64(maxRequests) {
			rlBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		rlRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

type clientWindow struct {
	start time.Time
	count int
}

// memoryLimiter はクライアントIPごとの固定ウィンドウを保持します。
// 期限切れのウィンドウはウィンドウ幅ごとに一度まとめて削除します。
type memoryLimiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	clients   map[string]*clientWindow
	lastSweep time.Time
}

func newMemoryLimiter(maxRequests int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		max:     maxRequests,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
}

// allow は ip の今回のリクエストを数え、上限内ならtrueを返します。
func (l *memoryLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		l.sweep(now)
	}
	cw, ok := l.clients[ip]
	if !ok || now.Sub(cw.start) > l.window {
		cw = &clientWindow{start: now}
		l.clients[ip] = cw
	}
	cw.count++
	return cw.count <= l.max
}

func (l *memoryLimiter) sweep(now time.Time) {
	for ip, cw := range l.clients {
		if now.Sub(cw.start) > l.window {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func (l *memoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// MemoryRateLimit はRedisがない場合のプロセス内のレート制限です。
func MemoryRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newMemoryLimiter(maxRequests, window)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			rlBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		rlRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
