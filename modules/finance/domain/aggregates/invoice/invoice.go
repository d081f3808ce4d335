package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/value_objects/gst"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

type Status string

const (
	StatusDraft Status = "Draft"
	StatusSent  Status = "Sent"
	StatusPaid  Status = "Paid"
	StatusVoid  Status = "Void"
)

var (
	ErrBadStatus  = serrors.NewError("INVOICE_BAD_STATUS", "invoice is not in a state that allows this action", "status")
	ErrBadAmount  = serrors.NewError("INVOICE_BAD_AMOUNT", "amount must be positive", "amount")
	ErrBadGSTRate = serrors.NewError("INVOICE_BAD_GST_RATE", "gst rate must be a standard slab", "gstRate")
	ErrOverpaid   = serrors.NewError("INVOICE_OVERPAID", "receipts exceed the invoice gross", "amount")
)

type Invoice struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	number    string
	projectID uuid.UUID
	client    string
	amount    decimal.Decimal
	gstRate   decimal.Decimal
	gstAmount decimal.Decimal
	status    Status
	dueDate   time.Time
	issuedAt  time.Time
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Invoice)

func WithID(id uuid.UUID) Option {
	return func(i *Invoice) {
		i.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(i *Invoice) {
		i.tenantID = tenantID
	}
}

func WithProjectID(projectID uuid.UUID) Option {
	return func(i *Invoice) {
		i.projectID = projectID
	}
}

func WithStatus(status Status) Option {
	return func(i *Invoice) {
		i.status = status
	}
}

func WithDueDate(dueDate time.Time) Option {
	return func(i *Invoice) {
		i.dueDate = dueDate
	}
}

func WithIssuedAt(issuedAt time.Time) Option {
	return func(i *Invoice) {
		i.issuedAt = issuedAt
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(i *Invoice) {
		i.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(i *Invoice) {
		i.updatedAt = updatedAt
	}
}

func New(number, client string, amount, gstRate decimal.Decimal, opts ...Option) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, ErrBadAmount
	}
	if !gst.ValidRate(gstRate) {
		return nil, ErrBadGSTRate
	}
	i := &Invoice{
		id:        uuid.New(),
		number:    number,
		client:    client,
		amount:    amount,
		gstRate:   gstRate,
		gstAmount: gst.Amount(amount, gstRate),
		status:    StatusDraft,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *Invoice) ID() uuid.UUID              { return i.id }
func (i *Invoice) TenantID() uuid.UUID        { return i.tenantID }
func (i *Invoice) Number() string             { return i.number }
func (i *Invoice) ProjectID() uuid.UUID       { return i.projectID }
func (i *Invoice) Client() string             { return i.client }
func (i *Invoice) Amount() decimal.Decimal    { return i.amount }
func (i *Invoice) GSTRate() decimal.Decimal   { return i.gstRate }
func (i *Invoice) GSTAmount() decimal.Decimal { return i.gstAmount }
func (i *Invoice) Status() Status             { return i.status }
func (i *Invoice) DueDate() time.Time         { return i.dueDate }
func (i *Invoice) IssuedAt() time.Time        { return i.issuedAt }
func (i *Invoice) CreatedAt() time.Time       { return i.createdAt }
func (i *Invoice) UpdatedAt() time.Time       { return i.updatedAt }

func (i *Invoice) Gross() decimal.Decimal {
	return i.amount.Add(i.gstAmount)
}

// Overdue reports whether a sent invoice passed its due date unpaid.
func (i *Invoice) Overdue(now time.Time) bool {
	return i.status == StatusSent && !i.dueDate.IsZero() && now.After(i.dueDate)
}

// Send issues a draft invoice.
func (i *Invoice) Send(now time.Time) error {
	if i.status != StatusDraft {
		return ErrBadStatus
	}
	i.status = StatusSent
	i.issuedAt = now
	i.updatedAt = now
	return nil
}

// Settle marks a sent invoice paid once receipts cover the gross.
func (i *Invoice) Settle(received decimal.Decimal) error {
	if i.status != StatusSent {
		return ErrBadStatus
	}
	if received.GreaterThan(i.Gross()) {
		return ErrOverpaid
	}
	if received.Equal(i.Gross()) {
		i.status = StatusPaid
		i.updatedAt = time.Now()
	}
	return nil
}

// Void cancels a draft or sent invoice.
func (i *Invoice) Void() error {
	if i.status == StatusPaid || i.status == StatusVoid {
		return ErrBadStatus
	}
	i.status = StatusVoid
	i.updatedAt = time.Now()
	return nil
}
