package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/budget"
	"github.com/arkiflo/arkiflo/pkg/composables"
)

// BudgetStatus pairs a budget with its live spend figures.
type BudgetStatus struct {
	Budget    *budget.Budget
	Spent     decimal.Decimal
	SafeToUse decimal.Decimal
}

type BudgetService struct {
	repo budget.Repository
}

func NewBudgetService(repo budget.Repository) *BudgetService {
	return &BudgetService{repo: repo}
}

// StatusByProject resolves each category budget against actual cash book
// spend, yielding the safe-to-use figure the project screens show.
func (s *BudgetService) StatusByProject(ctx context.Context, projectID uuid.UUID) ([]BudgetStatus, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	budgets, err := s.repo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.repo.SpentFor(ctx, b.ProjectID, b.Category)
		if err != nil {
			return nil, err
		}
		out = append(out, BudgetStatus{
			Budget:    b,
			Spent:     spent,
			SafeToUse: b.SafeToUse(spent),
		})
	}
	return out, nil
}

func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *BudgetService) Create(ctx context.Context, data *budget.Budget) (*budget.Budget, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	}); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BudgetService) Update(ctx context.Context, data *budget.Budget) (*budget.Budget, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return err
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
