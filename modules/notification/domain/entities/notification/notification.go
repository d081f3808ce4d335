package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind tells the client which icon and deep link to render.
type Kind string

const (
	KindLeadAssigned    Kind = "LeadAssigned"
	KindRequestAssigned Kind = "RequestAssigned"
	KindExpenseDecided  Kind = "ExpenseDecided"
	KindSLABreached     Kind = "SLABreached"
)

type Notification struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	recipient uuid.UUID
	kind      Kind
	message   string
	read      bool
	createdAt time.Time
}

type Option func(*Notification)

func WithID(id uuid.UUID) Option {
	return func(n *Notification) {
		n.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(n *Notification) {
		n.tenantID = tenantID
	}
}

func WithRead(read bool) Option {
	return func(n *Notification) {
		n.read = read
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(n *Notification) {
		n.createdAt = createdAt
	}
}

func New(recipient uuid.UUID, kind Kind, message string, opts ...Option) *Notification {
	n := &Notification{
		id:        uuid.New(),
		recipient: recipient,
		kind:      kind,
		message:   message,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notification) ID() uuid.UUID        { return n.id }
func (n *Notification) TenantID() uuid.UUID  { return n.tenantID }
func (n *Notification) Recipient() uuid.UUID { return n.recipient }
func (n *Notification) Kind() Kind           { return n.kind }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) Read() bool           { return n.read }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

func (n *Notification) MarkRead() {
	n.read = true
}

type FindParams struct {
	Limit      int
	Offset     int
	Recipient  uuid.UUID
	UnreadOnly bool
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	UnreadCount(ctx context.Context, recipient uuid.UUID) (int64, error)
	LatestOfKind(ctx context.Context, kind Kind) (time.Time, error)
	Create(ctx context.Context, n *Notification) error
	Update(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, recipient uuid.UUID) error
}
