package persistence

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/domain/entities/tenant"
	"github.com/arkiflo/arkiflo/modules/core/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrTenantNotFound = errors.Wrap(serrors.ErrNotFound, "tenant")
)

const (
	tenantFindQuery = `SELECT id, name, domain, gst_number, is_active, created_at, updated_at FROM tenants`

	tenantInsertQuery = `
		INSERT INTO tenants (id, name, domain, gst_number, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	tenantUpdateQuery = `
		UPDATE tenants
		SET name = $1, domain = $2, gst_number = $3, is_active = $4, updated_at = $5
		WHERE id = $6`
)

type TenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &TenantRepository{}
}

func (r *TenantRepository) queryTenants(ctx context.Context, query string, args ...any) ([]*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying tenants")
	}
	defer rows.Close()

	var out []*tenant.Tenant
	for rows.Next() {
		var m models.Tenant
		if err := rows.Scan(&m.ID, &m.Name, &m.Domain, &m.GSTNumber, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning tenant")
		}
		t, err := toDomainTenant(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TenantRepository) GetAll(ctx context.Context) ([]*tenant.Tenant, error) {
	return r.queryTenants(ctx, tenantFindQuery+" ORDER BY created_at")
}

func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	tenants, err := r.queryTenants(ctx, tenantFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, ErrTenantNotFound
	}
	return tenants[0], nil
}

func (r *TenantRepository) GetByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	tenants, err := r.queryTenants(ctx, tenantFindQuery+" WHERE domain = $1", strings.ToLower(domain))
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, ErrTenantNotFound
	}
	return tenants[0], nil
}

func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		ctx,
		tenantInsertQuery,
		t.ID().String(),
		t.Name(),
		mapping.ValueToSQLNullString(strings.ToLower(t.Domain())),
		mapping.ValueToSQLNullString(t.GSTNumber()),
		t.IsActive(),
		t.CreatedAt(),
		t.UpdatedAt(),
	); err != nil {
		return nil, errors.Wrap(err, "inserting tenant")
	}
	return r.GetByID(ctx, t.ID())
}

func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		ctx,
		tenantUpdateQuery,
		t.Name(),
		mapping.ValueToSQLNullString(strings.ToLower(t.Domain())),
		mapping.ValueToSQLNullString(t.GSTNumber()),
		t.IsActive(),
		t.UpdatedAt(),
		t.ID().String(),
	); err != nil {
		return nil, errors.Wrap(err, "updating tenant")
	}
	return r.GetByID(ctx, t.ID())
}
