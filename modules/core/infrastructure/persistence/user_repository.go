package persistence

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrUserNotFound = errors.Wrap(serrors.ErrNotFound, "user")
)

const (
	userFindQuery = `
		SELECT
			u.id,
			u.tenant_id,
			u.name,
			u.email,
			u.role,
			u.permissions,
			u.senior_manager_view,
			u.password,
			u.created_at,
			u.updated_at
		FROM users u`

	userCountQuery = `SELECT COUNT(u.id) FROM users u`

	userInsertQuery = `
		INSERT INTO users (id, tenant_id, name, email, role, permissions, senior_manager_view, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	userUpdateQuery = `
		UPDATE users
		SET name = $1, email = $2, role = $3, permissions = $4, senior_manager_view = $5, password = $6, updated_at = $7
		WHERE id = $8`

	userDeleteQuery = `DELETE FROM users WHERE id = $1`
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer rows.Close()

	var out []user.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Name,
			&m.Email,
			&m.Role,
			&m.Permissions,
			&m.SeniorManagerView,
			&m.Password,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning user")
		}
		u, err := toDomainUser(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	query := userCountQuery + " WHERE u.tenant_id = $1"
	args := []any{params.TenantID.String()}
	if params.Search != "" {
		query += " AND (u.name ILIKE $2 OR u.email ILIKE $2)"
		args = append(args, "%"+params.Search+"%")
	}
	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}

func (r *UserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	query := userFindQuery + " WHERE u.tenant_id = $1"
	args := []any{params.TenantID.String()}
	if params.Search != "" {
		query += " AND (u.name ILIKE $2 OR u.email ILIKE $2)"
		args = append(args, "%"+params.Search+"%")
	}
	query += " ORDER BY u.name"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += " LIMIT $" + itoa(len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += " OFFSET $" + itoa(len(args))
	}
	return r.queryUsers(ctx, query, args...)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE u.id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

// GetByEmail scopes by tenant when one is given; uuid.Nil searches across
// tenants (login does not know the tenant yet).
func (r *UserRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (user.User, error) {
	query := userFindQuery + " WHERE LOWER(u.email) = $1"
	args := []any{strings.ToLower(email)}
	if tenantID != uuid.Nil {
		query += " AND u.tenant_id = $2"
		args = append(args, tenantID.String())
	}
	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		ctx,
		userInsertQuery,
		u.ID().String(),
		u.TenantID().String(),
		u.Name(),
		strings.ToLower(u.Email()),
		u.Role().String(),
		u.Permissions(),
		u.SeniorManagerView(),
		u.PasswordHash(),
		u.CreatedAt(),
		u.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "inserting user")
	}
	return r.GetByID(ctx, u.ID())
}

func (r *UserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		ctx,
		userUpdateQuery,
		u.Name(),
		strings.ToLower(u.Email()),
		u.Role().String(),
		u.Permissions(),
		u.SeniorManagerView(),
		u.PasswordHash(),
		u.UpdatedAt(),
		u.ID().String(),
	); err != nil {
		return nil, errors.Wrap(err, "updating user")
	}
	return r.GetByID(ctx, u.ID())
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, userDeleteQuery, id.String())
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
