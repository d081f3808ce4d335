package models

import (
	"database/sql"
	"time"
)

type Tenant struct {
	ID        string
	Name      string
	Domain    sql.NullString
	GSTNumber sql.NullString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID                string
	TenantID          string
	Name              string
	Email             string
	Role              string
	Permissions       []string
	SeniorManagerView bool
	Password          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Session struct {
	Token     string
	UserID    string
	TenantID  string
	IP        sql.NullString
	UserAgent sql.NullString
	ExpiresAt time.Time
	CreatedAt time.Time
}
