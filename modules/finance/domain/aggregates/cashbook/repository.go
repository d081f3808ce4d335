package cashbook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FindParams struct {
	Limit     int
	Offset    int
	Kind      Kind
	ProjectID uuid.UUID
	From      time.Time
	To        time.Time
}

// Totals are tax-inclusive sums over a date range.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (t Totals) Balance() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Create(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	Totals(ctx context.Context, from, to time.Time) (Totals, error)

	LastClosedDay(ctx context.Context) (time.Time, error)
	CloseDay(ctx context.Context, closing *DayClosing) error
	GetSnapshot(ctx context.Context, month string) (*MonthSnapshot, error)
	CreateSnapshot(ctx context.Context, snapshot *MonthSnapshot) error
}
