package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/modules/crm/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrLeadNotFound = errors.Wrap(serrors.ErrNotFound, "lead")
)

const (
	leadFindQuery = `
		SELECT
			l.id,
			l.tenant_id,
			l.name,
			l.contact,
			l.source,
			l.stage,
			l.estimate,
			l.assignee_id,
			l.created_at,
			l.updated_at
		FROM leads l`

	leadCountQuery = `SELECT COUNT(l.id) FROM leads l WHERE l.tenant_id = $1`

	leadInsertQuery = `
		INSERT INTO leads (id, tenant_id, name, contact, source, stage, estimate, assignee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	leadUpdateQuery = `
		UPDATE leads
		SET name = $1, contact = $2, source = $3, stage = $4, estimate = $5, assignee_id = $6, updated_at = $7
		WHERE id = $8 AND tenant_id = $9`

	leadDeleteQuery = `DELETE FROM leads WHERE id = $1 AND tenant_id = $2`
)

type LeadRepository struct{}

func NewLeadRepository() lead.Repository {
	return &LeadRepository{}
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...any) ([]*lead.Lead, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying leads")
	}
	defer rows.Close()

	var out []*lead.Lead
	for rows.Next() {
		var m models.Lead
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Name,
			&m.Contact,
			&m.Source,
			&m.Stage,
			&m.Estimate,
			&m.Assignee,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning lead")
		}
		entity, err := toDomainLead(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *LeadRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, leadCountQuery, tenantID.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting leads")
	}
	return count, nil
}

func (r *LeadRepository) GetPaginated(ctx context.Context, params *lead.FindParams) ([]*lead.Lead, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"l.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Stage != "" {
		args = append(args, string(params.Stage))
		where = append(where, fmt.Sprintf("l.stage = $%d", len(args)))
	}
	if params.Assignee != uuid.Nil {
		args = append(args, params.Assignee.String())
		where = append(where, fmt.Sprintf("l.assignee_id = $%d", len(args)))
	}
	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		where = append(where, fmt.Sprintf("(l.name ILIKE $%d OR l.contact ILIKE $%d)", len(args), len(args)))
	}
	query := leadFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY l.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryLeads(ctx, query, args...)
}

func (r *LeadRepository) GetAll(ctx context.Context) ([]*lead.Lead, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryLeads(ctx, leadFindQuery+" WHERE l.tenant_id = $1 ORDER BY l.created_at DESC", tenantID.String())
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	leads, err := r.queryLeads(ctx, leadFindQuery+" WHERE l.id = $1 AND l.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrLeadNotFound
	}
	return leads[0], nil
}

func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		leadInsertQuery,
		l.ID().String(),
		l.TenantID().String(),
		l.Name(),
		l.Contact(),
		l.Source(),
		string(l.Stage()),
		l.Estimate().String(),
		mapping.UUIDToSQLNullString(l.Assignee()),
		l.CreatedAt(),
		l.UpdatedAt(),
	); err != nil {
		return errors.Wrap(err, "creating lead")
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		leadUpdateQuery,
		l.Name(),
		l.Contact(),
		l.Source(),
		string(l.Stage()),
		l.Estimate().String(),
		mapping.UUIDToSQLNullString(l.Assignee()),
		l.UpdatedAt(),
		l.ID().String(),
		l.TenantID().String(),
	); err != nil {
		return errors.Wrap(err, "updating lead")
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, leadDeleteQuery, id.String(), tenantID.String()); err != nil {
		return errors.Wrap(err, "deleting lead")
	}
	return nil
}
