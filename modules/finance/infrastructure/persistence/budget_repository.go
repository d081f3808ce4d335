package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/budget"
	"github.com/arkiflo/arkiflo/modules/finance/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrBudgetNotFound = errors.Wrap(serrors.ErrNotFound, "budget")
)

const (
	budgetFindQuery = `
		SELECT b.id, b.tenant_id, b.project_id, b.category, b.planned, b.lock_percent, b.created_at, b.updated_at
		FROM budgets b`

	budgetInsertQuery = `
		INSERT INTO budgets (id, tenant_id, project_id, category, planned, lock_percent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	budgetUpdateQuery = `
		UPDATE budgets
		SET planned = $1, lock_percent = $2, updated_at = $3
		WHERE id = $4 AND tenant_id = $5`

	budgetDeleteQuery = `DELETE FROM budgets WHERE id = $1 AND tenant_id = $2`

	budgetSpentQuery = `
		SELECT COALESCE(SUM(e.amount + e.gst_amount), 0)
		FROM cashbook_entries e
		WHERE e.tenant_id = $1 AND e.kind = 'Debit' AND e.project_id = $2 AND e.category = $3`
)

type BudgetRepository struct{}

func NewBudgetRepository() budget.Repository {
	return &BudgetRepository{}
}

func toDomainBudget(m *models.Budget) (*budget.Budget, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing budget id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing budget tenant id")
	}
	projectID, err := uuid.Parse(m.ProjectID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing budget project id")
	}
	planned, err := decimal.NewFromString(m.Planned)
	if err != nil {
		return nil, errors.Wrap(err, "parsing budget planned amount")
	}
	lockPercent, err := decimal.NewFromString(m.LockPercent)
	if err != nil {
		return nil, errors.Wrap(err, "parsing budget lock percent")
	}
	return &budget.Budget{
		ID:          id,
		TenantID:    tenantID,
		ProjectID:   projectID,
		Category:    m.Category,
		Planned:     planned,
		LockPercent: lockPercent,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func (r *BudgetRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]*budget.Budget, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying budgets")
	}
	defer rows.Close()

	var out []*budget.Budget
	for rows.Next() {
		var m models.Budget
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.ProjectID,
			&m.Category,
			&m.Planned,
			&m.LockPercent,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning budget")
		}
		entity, err := toDomainBudget(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *BudgetRepository) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*budget.Budget, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryBudgets(ctx, budgetFindQuery+" WHERE b.project_id = $1 AND b.tenant_id = $2 ORDER BY b.category", projectID.String(), tenantID.String())
}

func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := r.queryBudgets(ctx, budgetFindQuery+" WHERE b.id = $1 AND b.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, ErrBudgetNotFound
	}
	return budgets[0], nil
}

func (r *BudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		budgetInsertQuery,
		b.ID.String(),
		b.TenantID.String(),
		b.ProjectID.String(),
		b.Category,
		b.Planned.String(),
		b.LockPercent.String(),
		b.CreatedAt,
		b.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "creating budget")
	}
	return nil
}

func (r *BudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		budgetUpdateQuery,
		b.Planned.String(),
		b.LockPercent.String(),
		b.UpdatedAt,
		b.ID.String(),
		b.TenantID.String(),
	); err != nil {
		return errors.Wrap(err, "updating budget")
	}
	return nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, budgetDeleteQuery, id.String(), tenantID.String()); err != nil {
		return errors.Wrap(err, "deleting budget")
	}
	return nil
}

func (r *BudgetRepository) SpentFor(ctx context.Context, projectID uuid.UUID, category string) (decimal.Decimal, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	var raw string
	if err := tx.QueryRow(ctx, budgetSpentQuery, tenantID.String(), projectID.String(), category).Scan(&raw); err != nil {
		return decimal.Zero, errors.Wrap(err, "summing category spend")
	}
	spent, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "parsing category spend")
	}
	return spent, nil
}
