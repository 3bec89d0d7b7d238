package repositories

import (
	"database/sql"

	"planedge/backend/internal/models"
)

// nullString は空文字を NULL として保存します。
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullDate(d *models.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

func datePtr(nt sql.NullTime) *models.Date {
	if !nt.Valid {
		return nil
	}
	d := models.NewDate(nt.Time)
	return &d
}
