package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// DateLayout は due_date の入出力形式です。
const DateLayout = "2006-01-02"

// Date は時刻を持たない日付です。JSONでは "YYYY-MM-DD" になります。
type Date struct {
	time.Time
}

// ParseDate は "YYYY-MM-DD" をパースします。
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// NewDate は時刻部分を切り捨てた Date を作成します。
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
