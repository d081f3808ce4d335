package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/expense"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type ExpenseService struct {
	repo      expense.Repository
	publisher eventbus.EventBus
}

func NewExpenseService(repo expense.Repository, publisher eventbus.EventBus) *ExpenseService {
	return &ExpenseService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ExpenseService) GetPaginated(ctx context.Context, params *expense.FindParams) ([]*expense.Request, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*expense.Request, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create raises a spend request. Any authenticated user may request;
// deciding requires the finance write permission.
func (s *ExpenseService) Create(ctx context.Context, data *expense.Request) (*expense.Request, error) {
	if _, err := composables.UseUser(ctx); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&expense.CreatedEvent{Result: data})
	return data, nil
}

func (s *ExpenseService) Decide(ctx context.Context, id uuid.UUID, approved bool) (*expense.Request, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entity.Decide(approved, actor.ID(), time.Now()); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&expense.DecidedEvent{Result: entity})
	return entity, nil
}
