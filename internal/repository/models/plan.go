package models

import (
	"database/sql"
	"time"
)

// Plan is the archive row of a generated plan. Column aliases are upper
// case so the same tags work for Oracle and SQLite.
type Plan struct {
	ID            string         `db:"ID"`
	SessionID     string         `db:"SESSION_ID"`
	SocialNetwork string         `db:"SOCIAL_NETWORK"`
	Objective     string         `db:"OBJECTIVE"`
	Niche         string         `db:"NICHE"`
	Markdown      string         `db:"MARKDOWN"`
	InputJSON     sql.NullString `db:"INPUT_JSON"`
	TaskCount     int            `db:"TASK_COUNT"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
}
