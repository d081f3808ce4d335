package project

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is the delivery pipeline position. Projects move forward one stage
// at a time; Handover is terminal.
type Stage string

const (
	StageDesign     Stage = "Design"
	StageProduction Stage = "Production"
	StageFitout     Stage = "Fitout"
	StageHandover   Stage = "Handover"
)

var stageOrder = map[Stage]int{
	StageDesign:     0,
	StageProduction: 1,
	StageFitout:     2,
	StageHandover:   3,
}

func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

func (s Stage) CanTransition(next Stage) bool {
	if !s.Valid() || !next.Valid() || s == StageHandover {
		return false
	}
	return stageOrder[next] == stageOrder[s]+1
}

type Project struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	name       string
	client     string
	designerID uuid.UUID
	stage      Stage
	value      decimal.Decimal
	startDate  time.Time
	dueDate    time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

type Option func(*Project)

func WithID(id uuid.UUID) Option {
	return func(p *Project) {
		p.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(p *Project) {
		p.tenantID = tenantID
	}
}

func WithClient(client string) Option {
	return func(p *Project) {
		p.client = client
	}
}

func WithDesignerID(designerID uuid.UUID) Option {
	return func(p *Project) {
		p.designerID = designerID
	}
}

func WithStage(stage Stage) Option {
	return func(p *Project) {
		p.stage = stage
	}
}

func WithValue(value decimal.Decimal) Option {
	return func(p *Project) {
		p.value = value
	}
}

func WithStartDate(startDate time.Time) Option {
	return func(p *Project) {
		p.startDate = startDate
	}
}

func WithDueDate(dueDate time.Time) Option {
	return func(p *Project) {
		p.dueDate = dueDate
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(p *Project) {
		p.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(p *Project) {
		p.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Project {
	p := &Project{
		id:        uuid.New(),
		name:      name,
		stage:     StageDesign,
		value:     decimal.Zero,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Project) ID() uuid.UUID          { return p.id }
func (p *Project) TenantID() uuid.UUID    { return p.tenantID }
func (p *Project) Name() string           { return p.name }
func (p *Project) Client() string         { return p.client }
func (p *Project) DesignerID() uuid.UUID  { return p.designerID }
func (p *Project) Stage() Stage           { return p.stage }
func (p *Project) Value() decimal.Decimal { return p.value }
func (p *Project) StartDate() time.Time   { return p.startDate }
func (p *Project) DueDate() time.Time     { return p.dueDate }
func (p *Project) CreatedAt() time.Time   { return p.createdAt }
func (p *Project) UpdatedAt() time.Time   { return p.updatedAt }

func (p *Project) SetName(name string) {
	p.name = name
	p.updatedAt = time.Now()
}

func (p *Project) SetClient(client string) {
	p.client = client
	p.updatedAt = time.Now()
}

func (p *Project) SetDesignerID(designerID uuid.UUID) {
	p.designerID = designerID
	p.updatedAt = time.Now()
}

func (p *Project) SetValue(value decimal.Decimal) {
	p.value = value
	p.updatedAt = time.Now()
}

func (p *Project) SetDueDate(dueDate time.Time) {
	p.dueDate = dueDate
	p.updatedAt = time.Now()
}

// Overdue reports whether the project passes its due date before handover.
func (p *Project) Overdue(now time.Time) bool {
	return p.stage != StageHandover && !p.dueDate.IsZero() && now.After(p.dueDate)
}

func (p *Project) Advance(next Stage) error {
	if !p.stage.CanTransition(next) {
		return ErrBadTransition
	}
	p.stage = next
	p.updatedAt = time.Now()
	return nil
}
