package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/modules/services/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrRequestNotFound = errors.Wrap(serrors.ErrNotFound, "service request")
)

const (
	requestFindQuery = `
		SELECT
			sr.id,
			sr.tenant_id,
			sr.title,
			sr.description,
			sr.priority,
			sr.status,
			sr.requester_id,
			sr.assignee_id,
			sr.sla_due,
			sr.resolved_at,
			sr.created_at,
			sr.updated_at
		FROM service_requests sr`

	requestCountQuery = `SELECT COUNT(sr.id) FROM service_requests sr WHERE sr.tenant_id = $1`

	requestInsertQuery = `
		INSERT INTO service_requests (id, tenant_id, title, description, priority, status, requester_id, assignee_id, sla_due, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	requestUpdateQuery = `
		UPDATE service_requests
		SET title = $1, description = $2, priority = $3, status = $4, assignee_id = $5, sla_due = $6, resolved_at = $7, updated_at = $8
		WHERE id = $9 AND tenant_id = $10`
)

type RequestRepository struct{}

func NewRequestRepository() request.Repository {
	return &RequestRepository{}
}

func toDomainRequest(m *models.ServiceRequest) (*request.Request, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing request id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing request tenant id")
	}
	requester, err := uuid.Parse(m.Requester)
	if err != nil {
		return nil, errors.Wrap(err, "parsing request requester id")
	}
	opts := []request.Option{
		request.WithID(id),
		request.WithTenantID(tenantID),
		request.WithDescription(m.Description),
		request.WithStatus(request.Status(m.Status)),
		request.WithRequester(requester),
		request.WithAssignee(mapping.SQLNullStringToUUID(m.Assignee)),
		request.WithCreatedAt(m.CreatedAt),
		request.WithUpdatedAt(m.UpdatedAt),
	}
	if m.SLADue.Valid {
		opts = append(opts, request.WithSLADue(m.SLADue.Time))
	}
	if m.ResolvedAt.Valid {
		opts = append(opts, request.WithResolvedAt(m.ResolvedAt.Time))
	}
	return request.New(m.Title, request.Priority(m.Priority), opts...)
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying service requests")
	}
	defer rows.Close()

	var out []*request.Request
	for rows.Next() {
		var m models.ServiceRequest
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Title,
			&m.Description,
			&m.Priority,
			&m.Status,
			&m.Requester,
			&m.Assignee,
			&m.SLADue,
			&m.ResolvedAt,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning service request")
		}
		entity, err := toDomainRequest(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, requestCountQuery, tenantID.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting service requests")
	}
	return count, nil
}

func (r *RequestRepository) GetPaginated(ctx context.Context, params *request.FindParams) ([]*request.Request, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"sr.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("sr.status = $%d", len(args)))
	}
	if params.Priority != "" {
		args = append(args, string(params.Priority))
		where = append(where, fmt.Sprintf("sr.priority = $%d", len(args)))
	}
	if params.Assignee != uuid.Nil {
		args = append(args, params.Assignee.String())
		where = append(where, fmt.Sprintf("sr.assignee_id = $%d", len(args)))
	}
	query := requestFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY sr.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryRequests(ctx, query, args...)
}

func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := r.queryRequests(ctx, requestFindQuery+" WHERE sr.id = $1 AND sr.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrRequestNotFound
	}
	return requests[0], nil
}

func (r *RequestRepository) Create(ctx context.Context, entity *request.Request) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		requestInsertQuery,
		entity.ID().String(),
		entity.TenantID().String(),
		entity.Title(),
		entity.Description(),
		string(entity.Priority()),
		string(entity.Status()),
		entity.Requester().String(),
		mapping.UUIDToSQLNullString(entity.Assignee()),
		mapping.TimeToSQLNullTime(entity.SLADue()),
		mapping.TimeToSQLNullTime(entity.ResolvedAt()),
		entity.CreatedAt(),
		entity.UpdatedAt(),
	); err != nil {
		return errors.Wrap(err, "creating service request")
	}
	return nil
}

func (r *RequestRepository) Update(ctx context.Context, entity *request.Request) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		requestUpdateQuery,
		entity.Title(),
		entity.Description(),
		string(entity.Priority()),
		string(entity.Status()),
		mapping.UUIDToSQLNullString(entity.Assignee()),
		mapping.TimeToSQLNullTime(entity.SLADue()),
		mapping.TimeToSQLNullTime(entity.ResolvedAt()),
		entity.UpdatedAt(),
		entity.ID().String(),
		entity.TenantID().String(),
	); err != nil {
		return errors.Wrap(err, "updating service request")
	}
	return nil
}
