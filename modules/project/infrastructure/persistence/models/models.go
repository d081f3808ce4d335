package models

import (
	"database/sql"
	"time"
)

type Project struct {
	ID         string
	TenantID   string
	Name       string
	Client     string
	DesignerID sql.NullString
	Stage      string
	Value      string
	StartDate  sql.NullTime
	DueDate    sql.NullTime
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
