package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type LeadService struct {
	repo      lead.Repository
	publisher eventbus.EventBus
}

func NewLeadService(repo lead.Repository, publisher eventbus.EventBus) *LeadService {
	return &LeadService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *LeadService) Count(ctx context.Context) (int64, error) {
	if err := composables.CanUser(ctx, permissions.LeadRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx)
}

func (s *LeadService) GetPaginated(ctx context.Context, params *lead.FindParams) ([]*lead.Lead, error) {
	if err := composables.CanUser(ctx, permissions.LeadRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	if err := composables.CanUser(ctx, permissions.LeadRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *LeadService) Create(ctx context.Context, data *lead.Lead) (*lead.Lead, error) {
	if err := composables.CanUser(ctx, permissions.LeadCreate); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&lead.CreatedEvent{Result: data})
	return data, nil
}

func (s *LeadService) Update(ctx context.Context, data *lead.Lead) (*lead.Lead, error) {
	if err := composables.CanUser(ctx, permissions.LeadUpdate); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&lead.UpdatedEvent{Result: data})
	return data, nil
}

// Advance moves a lead along the funnel. The stage machine on the aggregate
// rejects skips and moves out of terminal stages.
func (s *LeadService) Advance(ctx context.Context, id uuid.UUID, next lead.Stage) (*lead.Lead, error) {
	if err := composables.CanUser(ctx, permissions.LeadUpdate); err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := entity.Stage()
	if err := entity.Advance(next); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&lead.StageChangedEvent{From: from, To: next, Result: entity})
	return entity, nil
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := composables.CanUser(ctx, permissions.LeadDelete); err != nil {
		return err
	}
	deleted, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return err
	}
	s.publisher.Publish(&lead.DeletedEvent{Result: deleted})
	return nil
}
