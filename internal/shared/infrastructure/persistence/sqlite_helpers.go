package persistence

import (
	"database/sql"
	"time"
)

// sqliteTimeLayout sorts lexicographically, so range predicates on TEXT
// columns behave like timestamp comparisons.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC with fixed-width nanoseconds.
func FormatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// ParseTime parses a value written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// FormatNullTime renders an optional timestamp.
func FormatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// ParseNullTime parses an optional timestamp, returning nil for NULL or garbage.
func ParseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// NullString converts an optional string for storage.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullStringPtr converts a nullable column into an optional string.
func NullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
