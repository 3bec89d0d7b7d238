// Package logger は log/slog をラップしたアプリケーションロガーです。
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var defaultLogger *slog.Logger

// Init はグローバルロガーを初期化します。
// file が空でなければ標準出力に加えてそのファイルにも追記します。
func Init(level string, json bool, file string) error {
	var w io.Writer = os.Stdout
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w = io.MultiWriter(os.Stdout, f)
	}
	SetOutput(w, level, json)
	return nil
}

// SetOutput は任意の Writer へ出力するロガーを設定します。
func SetOutput(w io.Writer, level string, json bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get はデフォルトロガーを返します。
func Get() *slog.Logger {
	if defaultLogger == nil {
		SetOutput(os.Stdout, "info", false)
	}
	return defaultLogger
}

func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// Fatal はエラーを出力してプロセスを終了します。
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}

// With は属性付きのロガーを返します。
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
