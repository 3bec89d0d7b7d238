package models

// DefaultPerPage は1ページあたりの件数の既定値です。
const DefaultPerPage = 10

// PageMeta はページネーションのメタ情報です。
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// NewPageMeta は総件数と要求ページからメタ情報を計算します。
// 範囲外のページは 1..last_page に丸めます。0件のときは last_page=1, from=to=0 です。
func NewPageMeta(total, perPage, page int) PageMeta {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}

	meta := PageMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
	if total > 0 {
		meta.From = (page-1)*perPage + 1
		meta.To = min(page*perPage, total)
	}
	return meta
}

// Offset はSQLのOFFSET値を返します。
func (m PageMeta) Offset() int {
	return (m.CurrentPage - 1) * m.PerPage
}

// TaskPage はタスク一覧の1ページ分です。
type TaskPage struct {
	Data []*Task
	PageMeta
}
