package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/entities/session"
	"github.com/arkiflo/arkiflo/pkg/constants"
)

var (
	ErrNoUser       = errors.New("no user found in context")
	ErrNoSession    = errors.New("no session found in context")
	ErrForbidden    = errors.New("access denied")
	ErrUnauthorized = errors.New("unauthorized")
)

// UseUser returns the authenticated user attached by the auth middleware.
func UseUser(ctx context.Context) (user.User, error) {
	u, ok := ctx.Value(constants.UserKey).(user.User)
	if !ok {
		return nil, ErrNoUser
	}
	return u, nil
}

// WithUser returns a new context carrying the authenticated user.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

// UseSession returns the session record for the current request.
func UseSession(ctx context.Context) (*session.Session, error) {
	sess, ok := ctx.Value(constants.SessionKey).(*session.Session)
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// WithSession returns a new context carrying the session record.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, constants.SessionKey, sess)
}

// WithTenantID returns a new context scoped to the tenant. Background jobs
// use it to act on one tenant at a time without an authenticated user.
func WithTenantID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, id)
}

// UseTenantID returns the tenant the context is scoped to: an explicit
// WithTenantID override first, the authenticated user's tenant otherwise.
// Every repository read keys on it; a context with neither cannot touch
// tenant-owned rows.
func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	if id, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return id, nil
	}
	u, err := UseUser(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return u.TenantID(), nil
}

// CanUser reports whether the authenticated user carries the permission.
// Unauthenticated contexts are never permitted.
func CanUser(ctx context.Context, perm string) error {
	u, err := UseUser(ctx)
	if err != nil {
		return ErrUnauthorized
	}
	if !u.Can(perm) {
		return ErrForbidden
	}
	return nil
}
