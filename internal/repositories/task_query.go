package repositories

import (
	"strings"

	"planedge/backend/internal/models"
)

// likeEscape は LIKE のエスケープ文字です。
// バックスラッシュは MySQL の文字列リテラルで解釈されるため "!" を使います。
const likeEscape = "!"

// TaskQuery はタスク一覧の検索条件です。UserID によるスコープは常に適用されます。
type TaskQuery struct {
	UserID  int
	Search  string
	Filter  models.TaskFilter
	Page    int
	PerPage int
}

// escapeLike は検索語中のワイルドカードをリテラルとして扱えるようにします。
func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// where は FROM 句以降の WHERE 句と引数を組み立てます。
func (q TaskQuery) where() (string, []any) {
	clauses := []string{"p.user_id = ?"}
	args := []any{q.UserID}

	switch q.Filter {
	case models.FilterCompleted:
		clauses = append(clauses, "t.is_completed = ?")
		args = append(args, true)
	case models.FilterPending:
		clauses = append(clauses, "t.is_completed = ?")
		args = append(args, false)
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		clauses = append(clauses,
			"(LOWER(t.title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(COALESCE(t.description, '')) LIKE ? ESCAPE '"+likeEscape+"')")
		args = append(args, pattern, pattern)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
