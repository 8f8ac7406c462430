package util

import (
	"database/sql"
	"encoding/json"
)

// MarshalNullJSON encodes v for a nullable JSON text column. A nil v is
// stored as NULL.
func MarshalNullJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// UnmarshalNullJSON decodes a nullable JSON text column into v. It reports
// false, leaving v untouched, when the column is NULL or empty.
func UnmarshalNullJSON(ns sql.NullString, v any) (bool, error) {
	if !ns.Valid || ns.String == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(ns.String), v); err != nil {
		return false, err
	}
	return true, nil
}
