package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrExpired = errors.New("session expired")

// Session is the cookie-carried login record. Created at login, destroyed at
// logout, expired sessions are treated as absent.
type Session struct {
	Token     string
	UserID    uuid.UUID
	TenantID  uuid.UUID
	IP        string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type Repository interface {
	GetByToken(ctx context.Context, token string) (*Session, error)
	Create(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type CreatedEvent struct {
	Result *Session
}

type DeletedEvent struct {
	Token string
}
