package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/entities/session"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var ErrInvalidCredentials = serrors.NewError("AUTH_INVALID_CREDENTIALS", "invalid email or password", "")

type AuthService struct {
	users     user.Repository
	sessions  session.Repository
	publisher eventbus.EventBus
}

func NewAuthService(users user.Repository, sessions session.Repository, publisher eventbus.EventBus) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		publisher: publisher,
	}
}

// Login verifies credentials and opens a session. The same opaque error
// covers unknown emails and wrong passwords.
func (s *AuthService) Login(ctx context.Context, email, password string) (user.User, *session.Session, error) {
	u, err := s.users.GetByEmail(ctx, uuid.Nil, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !u.CheckPassword(password) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, nil, err
	}

	conf := configuration.Use()
	ip, _ := composables.UseIP(ctx)
	var userAgent string
	if params, ok := composables.UseParams(ctx); ok {
		userAgent = params.UserAgent
	}
	sess := &session.Session{
		Token:     token,
		UserID:    u.ID(),
		TenantID:  u.TenantID(),
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(conf.SessionDuration),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, err
	}
	s.publisher.Publish(&session.CreatedEvent{Result: sess})
	return u, sess, nil
}

// ResolveSession is the middleware.SessionResolver implementation: it maps
// a cookie token onto the user, treating expired sessions as absent. It runs
// before the request transaction opens, so it brings its own.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (user.User, *session.Session, error) {
	var (
		u    user.User
		sess *session.Session
	)
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		sess, err = s.sessions.GetByToken(txCtx, token)
		if err != nil {
			return err
		}
		if sess.Expired() {
			return session.ErrExpired
		}
		u, err = s.users.GetByID(txCtx, sess.UserID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	s.publisher.Publish(&session.DeletedEvent{Token: token})
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
