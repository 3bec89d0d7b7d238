package flash_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planedge/backend/internal/flash"
)

func newContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		c.Request.AddCookie(ck)
	}
	return c, w
}

func findCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == flash.CookieName {
			return ck
		}
	}
	return nil
}

func TestCookieStore_PutThenPopOnce(t *testing.T) {
	store := flash.NewCookieStore()

	c, w := newContext()
	require.NoError(t, store.Put(c, flash.Success("Task created successfully.")))
	cookie := findCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	c, w = newContext(cookie)
	msg, err := store.Pop(c)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "Task created successfully.", msg.Success)
	assert.Empty(t, msg.Error)

	cleared := findCookie(w)
	require.NotNil(t, cleared, "Popは削除用のCookieを返す")
	assert.True(t, cleared.MaxAge < 0)

	c, _ = newContext()
	msg, err = store.Pop(c)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestCookieStore_Corrupt(t *testing.T) {
	store := flash.NewCookieStore()
	c, _ := newContext(&http.Cookie{Name: flash.CookieName, Value: "%%%"})
	_, err := store.Pop(c)
	assert.Error(t, err)
}

func TestMessage(t *testing.T) {
	assert.True(t, flash.Message{}.Empty())
	assert.False(t, flash.Error("boom").Empty())
	assert.Equal(t, "boom", flash.Error("boom").Error)
}

func TestUserKey(t *testing.T) {
	c, _ := newContext()
	_, ok := flash.UserKey(c)
	assert.False(t, ok)

	c.Set("user_id", 7)
	key, ok := flash.UserKey(c)
	assert.True(t, ok)
	assert.Equal(t, "flash:7", key)
}

// REDIS_ADDR が設定されている場合のみ実行します。
func TestRedisStoreIntegration(t *testing.T) {
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
	defer client.Close()

	store := flash.NewRedisStore(client, func(*gin.Context) (string, bool) {
		return "flash:test:" + t.Name(), true
	})

	c, _ := newContext()
	require.NoError(t, store.Put(c, flash.Error("Task not found.")))

	msg, err := store.Pop(c)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "Task not found.", msg.Error)

	msg, err = store.Pop(c)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
