package models

import (
	"database/sql"
	"time"
)

type Lead struct {
	ID        string
	TenantID  string
	Name      string
	Contact   string
	Source    string
	Stage     string
	Estimate  string
	Assignee  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}
