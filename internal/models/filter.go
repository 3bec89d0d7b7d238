package models

import "strings"

// TaskFilter は完了状態による絞り込みです。
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterCompleted TaskFilter = "completed"
	FilterPending   TaskFilter = "pending"
)

// ParseTaskFilter は文字列を TaskFilter に変換します。
// 不明な値は "all" として扱います。
func ParseTaskFilter(s string) TaskFilter {
	switch TaskFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterCompleted:
		return FilterCompleted
	case FilterPending:
		return FilterPending
	default:
		return FilterAll
	}
}
