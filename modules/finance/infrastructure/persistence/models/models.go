package models

import (
	"database/sql"
	"time"
)

type CashbookEntry struct {
	ID          string
	TenantID    string
	Kind        string
	Category    string
	Description string
	Amount      string
	GSTRate     string
	GSTAmount   string
	ProjectID   sql.NullString
	EntryDate   time.Time
	CreatedBy   sql.NullString
	CreatedAt   time.Time
}

type DayClosing struct {
	Day      time.Time
	Balance  string
	ClosedBy string
	ClosedAt time.Time
}

type MonthSnapshot struct {
	Month          string
	TotalDebit     string
	TotalCredit    string
	ClosingBalance string
	CreatedBy      string
	CreatedAt      time.Time
}

type Invoice struct {
	ID        string
	TenantID  string
	Number    string
	ProjectID sql.NullString
	Client    string
	Amount    string
	GSTRate   string
	GSTAmount string
	Status    string
	DueDate   sql.NullTime
	IssuedAt  sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Receipt struct {
	ID         string
	InvoiceID  string
	Amount     string
	Method     string
	ReceivedAt time.Time
	RecordedBy sql.NullString
}

type Budget struct {
	ID          string
	TenantID    string
	ProjectID   string
	Category    string
	Planned     string
	LockPercent string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExpenseRequest struct {
	ID        string
	TenantID  string
	Requester string
	ProjectID sql.NullString
	Amount    string
	Reason    string
	Status    string
	DecidedBy sql.NullString
	DecidedAt sql.NullTime
	CreatedAt time.Time
}
