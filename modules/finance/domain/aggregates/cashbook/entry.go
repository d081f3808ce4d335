package cashbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/value_objects/gst"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

type Kind string

const (
	KindDebit  Kind = "Debit"
	KindCredit Kind = "Credit"
)

func (k Kind) Valid() bool {
	return k == KindDebit || k == KindCredit
}

var (
	ErrBadKind    = serrors.NewError("CASHBOOK_BAD_KIND", "entry kind must be Debit or Credit", "kind")
	ErrBadAmount  = serrors.NewError("CASHBOOK_BAD_AMOUNT", "amount must be positive", "amount")
	ErrBadGSTRate = serrors.NewError("CASHBOOK_BAD_GST_RATE", "gst rate must be a standard slab", "gstRate")
	ErrDayClosed  = serrors.NewError("CASHBOOK_DAY_CLOSED", "the book is closed for this date", "entryDate")
)

// Entry is one cash book line. The GST amount is derived from the base
// amount at construction and never stored independently of it.
type Entry struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	kind        Kind
	category    string
	description string
	amount      decimal.Decimal
	gstRate     decimal.Decimal
	gstAmount   decimal.Decimal
	projectID   uuid.UUID
	entryDate   time.Time
	createdBy   uuid.UUID
	createdAt   time.Time
}

type Option func(*Entry)

func WithID(id uuid.UUID) Option {
	return func(e *Entry) {
		e.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(e *Entry) {
		e.tenantID = tenantID
	}
}

func WithDescription(description string) Option {
	return func(e *Entry) {
		e.description = description
	}
}

func WithProjectID(projectID uuid.UUID) Option {
	return func(e *Entry) {
		e.projectID = projectID
	}
}

func WithEntryDate(entryDate time.Time) Option {
	return func(e *Entry) {
		e.entryDate = entryDate
	}
}

func WithCreatedBy(createdBy uuid.UUID) Option {
	return func(e *Entry) {
		e.createdBy = createdBy
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(e *Entry) {
		e.createdAt = createdAt
	}
}

func New(kind Kind, category string, amount, gstRate decimal.Decimal, opts ...Option) (*Entry, error) {
	if !kind.Valid() {
		return nil, ErrBadKind
	}
	if !amount.IsPositive() {
		return nil, ErrBadAmount
	}
	if !gst.ValidRate(gstRate) {
		return nil, ErrBadGSTRate
	}
	e := &Entry{
		id:        uuid.New(),
		kind:      kind,
		category:  category,
		amount:    amount,
		gstRate:   gstRate,
		gstAmount: gst.Amount(amount, gstRate),
		entryDate: truncateToDay(time.Now().UTC()),
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.entryDate = truncateToDay(e.entryDate)
	return e, nil
}

func (e *Entry) ID() uuid.UUID              { return e.id }
func (e *Entry) TenantID() uuid.UUID        { return e.tenantID }
func (e *Entry) Kind() Kind                 { return e.kind }
func (e *Entry) Category() string           { return e.category }
func (e *Entry) Description() string        { return e.description }
func (e *Entry) Amount() decimal.Decimal    { return e.amount }
func (e *Entry) GSTRate() decimal.Decimal   { return e.gstRate }
func (e *Entry) GSTAmount() decimal.Decimal { return e.gstAmount }
func (e *Entry) ProjectID() uuid.UUID       { return e.projectID }
func (e *Entry) EntryDate() time.Time       { return e.entryDate }
func (e *Entry) CreatedBy() uuid.UUID       { return e.createdBy }
func (e *Entry) CreatedAt() time.Time       { return e.createdAt }

// Gross is the amount inclusive of tax.
func (e *Entry) Gross() decimal.Decimal {
	return e.amount.Add(e.gstAmount)
}

// Signed returns the amount with credits positive and debits negative,
// the convention the running balance sums over.
func (e *Entry) Signed() decimal.Decimal {
	if e.kind == KindCredit {
		return e.Gross()
	}
	return e.Gross().Neg()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
