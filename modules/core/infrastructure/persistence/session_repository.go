package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/arkiflo/arkiflo/modules/core/domain/entities/session"
	"github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrSessionNotFound = errors.Wrap(serrors.ErrNotFound, "session")
)

const (
	sessionFindQuery = `
		SELECT token, user_id, tenant_id, ip, user_agent, expires_at, created_at
		FROM sessions`

	sessionInsertQuery = `
		INSERT INTO sessions (token, user_id, tenant_id, ip, user_agent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	sessionDeleteQuery        = `DELETE FROM sessions WHERE token = $1`
	sessionDeleteExpiredQuery = `DELETE FROM sessions WHERE expires_at < NOW()`
)

type SessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &SessionRepository{}
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.Session
	if err := tx.QueryRow(ctx, sessionFindQuery+" WHERE token = $1", token).Scan(
		&m.Token,
		&m.UserID,
		&m.TenantID,
		&m.IP,
		&m.UserAgent,
		&m.ExpiresAt,
		&m.CreatedAt,
	); err != nil {
		return nil, ErrSessionNotFound
	}
	return toDomainSession(&m)
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		sessionInsertQuery,
		s.Token,
		s.UserID.String(),
		s.TenantID.String(),
		mapping.ValueToSQLNullString(s.IP),
		mapping.ValueToSQLNullString(s.UserAgent),
		s.ExpiresAt,
		s.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "inserting session")
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sessionDeleteQuery, token); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, sessionDeleteExpiredQuery)
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	return tag.RowsAffected(), nil
}
