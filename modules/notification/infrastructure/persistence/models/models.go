package models

import "time"

type Notification struct {
	ID        string
	TenantID  string
	Recipient string
	Kind      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
