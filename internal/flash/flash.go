// Package flash は次のリクエストで一度だけ表示するメッセージを保持します。
package flash

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TTL はフラッシュメッセージの有効期間です。
const TTL = 5 * time.Minute

// CookieName はCookieStoreが使うCookie名です。
const CookieName = "planedge_flash"

// Message は成功またはエラーのメッセージです。どちらか一方のみ設定されます。
type Message struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success は成功メッセージを作成します。
func Success(msg string) Message { return Message{Success: msg} }

// Error はエラーメッセージを作成します。
func Error(msg string) Message { return Message{Error: msg} }

// Empty はメッセージが空かどうかを返します。
func (m Message) Empty() bool { return m.Success == "" && m.Error == "" }

// Store はフラッシュメッセージの保存先です。
type Store interface {
	// Put はメッセージを保存します。既存のメッセージは上書きされます。
	Put(c *gin.Context, m Message) error
	// Pop は保存されたメッセージを取り出して削除します。なければnilを返します。
	Pop(c *gin.Context) (*Message, error)
}

func encode(m Message) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("could not encode flash: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decode(s string) (*Message, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("could not decode flash: %w", err)
	}
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("could not decode flash: %w", err)
	}
	if m.Empty() {
		return nil, nil
	}
	return &m, nil
}

// CookieStore はメッセージをCookieに保存します。
type CookieStore struct {
	Secure bool
}

// NewCookieStore は新しいCookieStoreを作成します。
func NewCookieStore() *CookieStore {
	return &CookieStore{}
}

func (s *CookieStore) Put(c *gin.Context, m Message) error {
	value, err := encode(m)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, int(TTL.Seconds()), "/", "", s.Secure, true)
	return nil
}

func (s *CookieStore) Pop(c *gin.Context) (*Message, error) {
	value, err := c.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || value == "" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// 読み出したら必ず削除する
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.Secure, true)
	return decode(value)
}
