package flash

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// KeyFunc はリクエストからRedisのキーを決めます。キーが決まらない場合はfalseを返します。
type KeyFunc func(c *gin.Context) (string, bool)

// UserKey は認証済みユーザーごとのキー "flash:<user_id>" を返します。
func UserKey(c *gin.Context) (string, bool) {
	userID, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := userID.(int)
	if !ok || id <= 0 {
		return "", false
	}
	return fmt.Sprintf("flash:%d", id), true
}

// RedisStore はメッセージをRedisに保存します。
type RedisStore struct {
	client *redis.Client
	key    KeyFunc
}

// NewRedisStore は新しいRedisStoreを作成します。keyがnilならUserKeyを使います。
func NewRedisStore(client *redis.Client, key KeyFunc) *RedisStore {
	if key == nil {
		key = UserKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Put(c *gin.Context, m Message) error {
	key, ok := s.key(c)
	if !ok {
		return errors.New("flash: no key for request")
	}
	value, err := encode(m)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx(c), key, value, TTL).Err(); err != nil {
		return fmt.Errorf("could not store flash: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(c *gin.Context) (*Message, error) {
	key, ok := s.key(c)
	if !ok {
		return nil, nil
	}
	value, err := s.client.GetDel(ctx(c), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not pop flash: %w", err)
	}
	return decode(value)
}

func ctx(c *gin.Context) context.Context {
	if c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
