package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound は対象が存在しないか、リクエストしたユーザーの所有でない場合のエラーです。
// 他人のレコードの存在を漏らさないため、両者を区別しません。
var ErrNotFound = errors.New("not found")

// ValidationError はフィールドごとの検証エラーです。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// PersistenceError はデータストアの失敗を包みます。
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// storeError はリポジトリのエラーをサービスのエラーに変換します。
func storeError(op string, err error, notFound error) error {
	if errors.Is(err, notFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return &PersistenceError{Op: op, Err: err}
}
