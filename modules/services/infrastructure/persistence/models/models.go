package models

import (
	"database/sql"
	"time"
)

type ServiceRequest struct {
	ID          string
	TenantID    string
	Title       string
	Description string
	Priority    string
	Status      string
	Requester   string
	Assignee    sql.NullString
	SLADue      sql.NullTime
	ResolvedAt  sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
