// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定値を保持します。
type Config struct {
	AppPort string
	GinMode string

	// DB
	DBDriver    string // mysql / postgres / sqlite3
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DatabaseURL string // postgres 用
	DBPath      string // sqlite3 用

	JWTSecret   string
	CORSOrigins []string

	// Redis (空ならフラッシュはCookie、レート制限はプロセス内)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit  int
	APIRateWindow time.Duration

	PerPage int

	LogLevel string
	LogJSON  bool
	LogFile  string
}

// ErrMissingJWTSecret は JWT_SECRET が未設定の場合のエラーです。
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Load は .env (存在すれば) と環境変数から設定を読み込みます。
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv は現在の環境変数だけから設定を構築します。
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        os.Getenv("DB_NAME"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBPath:        getEnv("DB_PATH", "storage/planedge.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		APIRateLimit:  getInt("API_RATE_LIMIT", 120),
		APIRateWindow: time.Duration(getInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		PerPage:       getInt("PER_PAGE", 10),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",
		LogFile:       getEnv("LOG_FILE", "storage/logs/app.log"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required for postgres")
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 10
	}
	return cfg, nil
}

// DSN は DBDriver に応じた接続文字列を返します。
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return c.DatabaseURL
	case "sqlite3":
		return c.DBPath + "?_foreign_keys=on"
	default:
		// 例: user:pass@tcp(db:3306)/dbname?parseTime=true&clientFoundRows=true
		// clientFoundRows: 値が変わらないUPDATEでも一致行数を返させる
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
