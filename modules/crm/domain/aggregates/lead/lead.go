package lead

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is the sales funnel position. Transitions move forward only, except
// that a lead can be lost from any open stage.
type Stage string

const (
	StageNew       Stage = "New"
	StageContacted Stage = "Contacted"
	StageQualified Stage = "Qualified"
	StageProposal  Stage = "Proposal"
	StageWon       Stage = "Won"
	StageLost      Stage = "Lost"
)

var stageOrder = map[Stage]int{
	StageNew:       0,
	StageContacted: 1,
	StageQualified: 2,
	StageProposal:  3,
	StageWon:       4,
	StageLost:      4,
}

func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

func (s Stage) Terminal() bool {
	return s == StageWon || s == StageLost
}

// CanTransition reports whether moving to next is allowed: one stage at a
// time forward, or Lost from any open stage.
func (s Stage) CanTransition(next Stage) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == StageLost {
		return true
	}
	return stageOrder[next] == stageOrder[s]+1
}

type Lead struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	name      string
	contact   string
	source    string
	stage     Stage
	estimate  decimal.Decimal
	assignee  uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Lead)

func WithID(id uuid.UUID) Option {
	return func(l *Lead) {
		l.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(l *Lead) {
		l.tenantID = tenantID
	}
}

func WithContact(contact string) Option {
	return func(l *Lead) {
		l.contact = contact
	}
}

func WithSource(source string) Option {
	return func(l *Lead) {
		l.source = source
	}
}

func WithStage(stage Stage) Option {
	return func(l *Lead) {
		l.stage = stage
	}
}

func WithEstimate(estimate decimal.Decimal) Option {
	return func(l *Lead) {
		l.estimate = estimate
	}
}

func WithAssignee(assignee uuid.UUID) Option {
	return func(l *Lead) {
		l.assignee = assignee
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(l *Lead) {
		l.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(l *Lead) {
		l.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Lead {
	l := &Lead{
		id:        uuid.New(),
		name:      name,
		stage:     StageNew,
		estimate:  decimal.Zero,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lead) ID() uuid.UUID             { return l.id }
func (l *Lead) TenantID() uuid.UUID       { return l.tenantID }
func (l *Lead) Name() string              { return l.name }
func (l *Lead) Contact() string           { return l.contact }
func (l *Lead) Source() string            { return l.source }
func (l *Lead) Stage() Stage              { return l.stage }
func (l *Lead) Estimate() decimal.Decimal { return l.estimate }
func (l *Lead) Assignee() uuid.UUID       { return l.assignee }
func (l *Lead) CreatedAt() time.Time      { return l.createdAt }
func (l *Lead) UpdatedAt() time.Time      { return l.updatedAt }

func (l *Lead) SetName(name string) {
	l.name = name
	l.updatedAt = time.Now()
}

func (l *Lead) SetContact(contact string) {
	l.contact = contact
	l.updatedAt = time.Now()
}

func (l *Lead) SetEstimate(estimate decimal.Decimal) {
	l.estimate = estimate
	l.updatedAt = time.Now()
}

func (l *Lead) SetAssignee(assignee uuid.UUID) {
	l.assignee = assignee
	l.updatedAt = time.Now()
}

// Advance moves the lead to the next stage, enforcing funnel order.
func (l *Lead) Advance(next Stage) error {
	if !l.stage.CanTransition(next) {
		return ErrBadTransition
	}
	l.stage = next
	l.updatedAt = time.Now()
	return nil
}
