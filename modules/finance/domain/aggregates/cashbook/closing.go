package cashbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DayClosing locks a day of the book: entries dated on or before the most
// recent closing can no longer be written without an explicit override.
type DayClosing struct {
	Day      time.Time
	Balance  decimal.Decimal
	ClosedBy uuid.UUID
	ClosedAt time.Time
}

// MonthSnapshot freezes the month totals once every day in it is closed.
type MonthSnapshot struct {
	Month          string
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	ClosingBalance decimal.Decimal
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
}

type DayClosedEvent struct {
	Result *DayClosing
}

type MonthClosedEvent struct {
	Result *MonthSnapshot
}

type EntryCreatedEvent struct {
	Result *Entry
	// Override marks an entry written into a closed day.
	Override bool
}

type EntryDeletedEvent struct {
	Result *Entry
}
