package request

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders requests and selects the resolution window.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status moves forward only. Closed is terminal.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

var statusOrder = map[Status]int{
	StatusOpen:       0,
	StatusInProgress: 1,
	StatusResolved:   2,
	StatusClosed:     3,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() || s == StatusClosed {
		return false
	}
	return statusOrder[next] == statusOrder[s]+1
}

type Request struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	title       string
	description string
	priority    Priority
	status      Status
	requester   uuid.UUID
	assignee    uuid.UUID
	slaDue      time.Time
	resolvedAt  time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

type Option func(*Request)

func WithID(id uuid.UUID) Option {
	return func(r *Request) {
		r.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(r *Request) {
		r.tenantID = tenantID
	}
}

func WithDescription(description string) Option {
	return func(r *Request) {
		r.description = description
	}
}

func WithStatus(status Status) Option {
	return func(r *Request) {
		r.status = status
	}
}

func WithRequester(requester uuid.UUID) Option {
	return func(r *Request) {
		r.requester = requester
	}
}

func WithAssignee(assignee uuid.UUID) Option {
	return func(r *Request) {
		r.assignee = assignee
	}
}

func WithSLADue(slaDue time.Time) Option {
	return func(r *Request) {
		r.slaDue = slaDue
	}
}

func WithResolvedAt(resolvedAt time.Time) Option {
	return func(r *Request) {
		r.resolvedAt = resolvedAt
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(r *Request) {
		r.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(r *Request) {
		r.updatedAt = updatedAt
	}
}

func New(title string, priority Priority, opts ...Option) (*Request, error) {
	if !priority.Valid() {
		return nil, ErrBadPriority
	}
	r := &Request{
		id:        uuid.New(),
		title:     title,
		priority:  priority,
		status:    StatusOpen,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Request) ID() uuid.UUID         { return r.id }
func (r *Request) TenantID() uuid.UUID   { return r.tenantID }
func (r *Request) Title() string         { return r.title }
func (r *Request) Description() string   { return r.description }
func (r *Request) Priority() Priority    { return r.priority }
func (r *Request) Status() Status        { return r.status }
func (r *Request) Requester() uuid.UUID  { return r.requester }
func (r *Request) Assignee() uuid.UUID   { return r.assignee }
func (r *Request) SLADue() time.Time     { return r.slaDue }
func (r *Request) ResolvedAt() time.Time { return r.resolvedAt }
func (r *Request) CreatedAt() time.Time  { return r.createdAt }
func (r *Request) UpdatedAt() time.Time  { return r.updatedAt }

func (r *Request) SetTitle(title string) {
	r.title = title
	r.updatedAt = time.Now()
}

func (r *Request) SetDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}

// Assign hands the request to a technician. Closed requests stay closed.
func (r *Request) Assign(assignee uuid.UUID) error {
	if r.status == StatusClosed {
		return ErrBadTransition
	}
	r.assignee = assignee
	if r.status == StatusOpen {
		r.status = StatusInProgress
	}
	r.updatedAt = time.Now()
	return nil
}

// Advance moves the request one step along the status flow. Reaching
// Resolved stamps the resolution time, which freezes breach detection.
func (r *Request) Advance(next Status) error {
	if !r.status.CanTransition(next) {
		return ErrBadTransition
	}
	r.status = next
	if next == StatusResolved {
		r.resolvedAt = time.Now()
	}
	r.updatedAt = time.Now()
	return nil
}

// Breached reports whether the request missed its resolution window. Once
// resolved, the verdict is fixed by the resolution time, not by now.
func (r *Request) Breached(now time.Time) bool {
	if r.slaDue.IsZero() {
		return false
	}
	if !r.resolvedAt.IsZero() {
		return r.resolvedAt.After(r.slaDue)
	}
	return now.After(r.slaDue)
}
