package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
)

// User is the session principal. Navigation visibility is a pure function of
// Role and SeniorManagerView; Permissions gate writes server-side.
type User interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Name() string
	Email() string
	Role() role.Role
	Permissions() []string
	SeniorManagerView() bool
	PasswordHash() string
	CreatedAt() time.Time
	UpdatedAt() time.Time

	Can(perm string) bool
	CheckPassword(password string) bool

	SetName(name string) User
	SetRole(r role.Role) User
	SetPassword(password string) (User, error)
	SetPermissions(perms []string) User
	SetSeniorManagerView(enabled bool) User
}

type Option func(*userImpl)

func WithID(id uuid.UUID) Option {
	return func(u *userImpl) {
		u.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(u *userImpl) {
		u.tenantID = tenantID
	}
}

func WithPasswordHash(hash string) Option {
	return func(u *userImpl) {
		u.passwordHash = hash
	}
}

func WithPermissions(perms []string) Option {
	return func(u *userImpl) {
		u.permissions = perms
	}
}

func WithSeniorManagerView(enabled bool) Option {
	return func(u *userImpl) {
		u.seniorManagerView = enabled
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(u *userImpl) {
		u.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(u *userImpl) {
		u.updatedAt = updatedAt
	}
}

func New(name, email string, r role.Role, opts ...Option) User {
	u := &userImpl{
		id:        uuid.New(),
		name:      name,
		email:     email,
		role:      r,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type userImpl struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	name              string
	email             string
	role              role.Role
	permissions       []string
	seniorManagerView bool
	passwordHash      string
	createdAt         time.Time
	updatedAt         time.Time
}

func (u *userImpl) ID() uuid.UUID           { return u.id }
func (u *userImpl) TenantID() uuid.UUID     { return u.tenantID }
func (u *userImpl) Name() string            { return u.name }
func (u *userImpl) Email() string           { return u.email }
func (u *userImpl) Role() role.Role         { return u.role }
func (u *userImpl) PasswordHash() string    { return u.passwordHash }
func (u *userImpl) CreatedAt() time.Time    { return u.createdAt }
func (u *userImpl) UpdatedAt() time.Time    { return u.updatedAt }
func (u *userImpl) SeniorManagerView() bool { return u.seniorManagerView }

func (u *userImpl) Permissions() []string {
	out := make([]string, len(u.permissions))
	copy(out, u.permissions)
	return out
}

func (u *userImpl) Can(perm string) bool {
	if u.role == role.Admin {
		return true
	}
	for _, p := range u.permissions {
		if p == perm {
			return true
		}
	}
	return false
}

func (u *userImpl) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

func (u *userImpl) clone() *userImpl {
	out := *u
	out.permissions = make([]string, len(u.permissions))
	copy(out.permissions, u.permissions)
	out.updatedAt = time.Now()
	return &out
}

func (u *userImpl) SetName(name string) User {
	out := u.clone()
	out.name = name
	return out
}

func (u *userImpl) SetRole(r role.Role) User {
	out := u.clone()
	out.role = r
	return out
}

func (u *userImpl) SetPassword(password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	out := u.clone()
	out.passwordHash = string(hash)
	return out, nil
}

func (u *userImpl) SetPermissions(perms []string) User {
	out := u.clone()
	out.permissions = make([]string, len(perms))
	copy(out.permissions, perms)
	return out
}

func (u *userImpl) SetSeniorManagerView(enabled bool) User {
	out := u.clone()
	out.seniorManagerView = enabled
	return out
}
