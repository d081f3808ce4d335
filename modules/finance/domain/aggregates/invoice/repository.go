package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is money received against an invoice.
type Receipt struct {
	ID         uuid.UUID
	InvoiceID  uuid.UUID
	Amount     decimal.Decimal
	Method     string
	ReceivedAt time.Time
	RecordedBy uuid.UUID
}

type FindParams struct {
	Limit     int
	Offset    int
	Status    Status
	ProjectID uuid.UUID
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Create(ctx context.Context, i *Invoice) error
	Update(ctx context.Context, i *Invoice) error

	CreateReceipt(ctx context.Context, r *Receipt) error
	ReceiptsFor(ctx context.Context, invoiceID uuid.UUID) ([]*Receipt, error)
	ReceivedTotal(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}

type CreatedEvent struct {
	Result *Invoice
}

type SentEvent struct {
	Result *Invoice
}

type PaidEvent struct {
	Result *Invoice
}

type ReceiptRecordedEvent struct {
	Result *Receipt
}
