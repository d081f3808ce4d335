package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/pkg/serrors"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var (
	ErrBadAmount      = serrors.NewError("EXPENSE_BAD_AMOUNT", "amount must be positive", "amount")
	ErrAlreadyDecided = serrors.NewError("EXPENSE_ALREADY_DECIDED", "request has already been decided", "status")
)

// Request is a spend approval ticket. Approval does not book the entry;
// it authorizes the accountant to.
type Request struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Requester uuid.UUID
	ProjectID uuid.UUID
	Amount    decimal.Decimal
	Reason    string
	Status    Status
	DecidedBy uuid.UUID
	DecidedAt time.Time
	CreatedAt time.Time
}

func New(requester uuid.UUID, amount decimal.Decimal, reason string) (*Request, error) {
	if !amount.IsPositive() {
		return nil, ErrBadAmount
	}
	return &Request{
		ID:        uuid.New(),
		Requester: requester,
		Amount:    amount,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

func (r *Request) Decide(approved bool, decidedBy uuid.UUID, now time.Time) error {
	if r.Status != StatusPending {
		return ErrAlreadyDecided
	}
	if approved {
		r.Status = StatusApproved
	} else {
		r.Status = StatusRejected
	}
	r.DecidedBy = decidedBy
	r.DecidedAt = now
	return nil
}

type FindParams struct {
	Limit  int
	Offset int
	Status Status
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Create(ctx context.Context, r *Request) error
	Update(ctx context.Context, r *Request) error
}

type CreatedEvent struct {
	Result *Request
}

type DecidedEvent struct {
	Result *Request
}
