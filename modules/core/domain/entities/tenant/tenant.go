package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is one fit-out company operating inside the platform. Every business
// row carries the tenant id; repositories scope all queries by it.
type Tenant struct {
	id        uuid.UUID
	name      string
	domain    string
	gstNumber string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Tenant)

func WithID(id uuid.UUID) Option {
	return func(t *Tenant) {
		t.id = id
	}
}

func WithDomain(domain string) Option {
	return func(t *Tenant) {
		t.domain = domain
	}
}

func WithGSTNumber(gstNumber string) Option {
	return func(t *Tenant) {
		t.gstNumber = gstNumber
	}
}

func WithIsActive(isActive bool) Option {
	return func(t *Tenant) {
		t.isActive = isActive
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(t *Tenant) {
		t.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(t *Tenant) {
		t.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Tenant {
	t := &Tenant{
		id:        uuid.New(),
		name:      name,
		isActive:  true,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tenant) ID() uuid.UUID        { return t.id }
func (t *Tenant) Name() string         { return t.name }
func (t *Tenant) Domain() string       { return t.domain }
func (t *Tenant) GSTNumber() string    { return t.gstNumber }
func (t *Tenant) IsActive() bool       { return t.isActive }
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time { return t.updatedAt }

func (t *Tenant) SetDomain(domain string) {
	t.domain = domain
	t.updatedAt = time.Now()
}

func (t *Tenant) SetGSTNumber(gstNumber string) {
	t.gstNumber = gstNumber
	t.updatedAt = time.Now()
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) (*Tenant, error)
}
