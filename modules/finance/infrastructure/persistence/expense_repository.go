package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/expense"
	"github.com/arkiflo/arkiflo/modules/finance/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrExpenseNotFound = errors.Wrap(serrors.ErrNotFound, "expense request")
)

const (
	expenseFindQuery = `
		SELECT r.id, r.tenant_id, r.requester, r.project_id, r.amount, r.reason, r.status, r.decided_by, r.decided_at, r.created_at
		FROM expense_requests r`

	expenseInsertQuery = `
		INSERT INTO expense_requests (id, tenant_id, requester, project_id, amount, reason, status, decided_by, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	expenseUpdateQuery = `
		UPDATE expense_requests
		SET status = $1, decided_by = $2, decided_at = $3
		WHERE id = $4 AND tenant_id = $5`
)

type ExpenseRepository struct{}

func NewExpenseRepository() expense.Repository {
	return &ExpenseRepository{}
}

func toDomainExpense(m *models.ExpenseRequest) (*expense.Request, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing expense id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing expense tenant id")
	}
	requester, err := uuid.Parse(m.Requester)
	if err != nil {
		return nil, errors.Wrap(err, "parsing expense requester")
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "parsing expense amount")
	}
	out := &expense.Request{
		ID:        id,
		TenantID:  tenantID,
		Requester: requester,
		ProjectID: mapping.SQLNullStringToUUID(m.ProjectID),
		Amount:    amount,
		Reason:    m.Reason,
		Status:    expense.Status(m.Status),
		DecidedBy: mapping.SQLNullStringToUUID(m.DecidedBy),
		CreatedAt: m.CreatedAt,
	}
	if m.DecidedAt.Valid {
		out.DecidedAt = m.DecidedAt.Time
	}
	return out, nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]*expense.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying expense requests")
	}
	defer rows.Close()

	var out []*expense.Request
	for rows.Next() {
		var m models.ExpenseRequest
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Requester,
			&m.ProjectID,
			&m.Amount,
			&m.Reason,
			&m.Status,
			&m.DecidedBy,
			&m.DecidedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning expense request")
		}
		entity, err := toDomainExpense(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) GetPaginated(ctx context.Context, params *expense.FindParams) ([]*expense.Request, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"r.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("r.status = $%d", len(args)))
	}
	query := expenseFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY r.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryExpenses(ctx, query, args...)
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*expense.Request, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := r.queryExpenses(ctx, expenseFindQuery+" WHERE r.id = $1 AND r.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrExpenseNotFound
	}
	return requests[0], nil
}

func (r *ExpenseRepository) Create(ctx context.Context, req *expense.Request) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		expenseInsertQuery,
		req.ID.String(),
		req.TenantID.String(),
		req.Requester.String(),
		mapping.UUIDToSQLNullString(req.ProjectID),
		req.Amount.String(),
		req.Reason,
		string(req.Status),
		mapping.UUIDToSQLNullString(req.DecidedBy),
		mapping.TimeToSQLNullTime(req.DecidedAt),
		req.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "creating expense request")
	}
	return nil
}

func (r *ExpenseRepository) Update(ctx context.Context, req *expense.Request) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		expenseUpdateQuery,
		string(req.Status),
		mapping.UUIDToSQLNullString(req.DecidedBy),
		mapping.TimeToSQLNullTime(req.DecidedAt),
		req.ID.String(),
		req.TenantID.String(),
	); err != nil {
		return errors.Wrap(err, "updating expense request")
	}
	return nil
}
