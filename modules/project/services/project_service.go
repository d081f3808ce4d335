package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/project/domain/aggregates/project"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type ProjectService struct {
	repo      project.Repository
	publisher eventbus.EventBus
}

func NewProjectService(repo project.Repository, publisher eventbus.EventBus) *ProjectService {
	return &ProjectService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ProjectService) Count(ctx context.Context) (int64, error) {
	if err := composables.CanUser(ctx, permissions.ProjectRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx)
}

func (s *ProjectService) GetPaginated(ctx context.Context, params *project.FindParams) ([]*project.Project, error) {
	if err := composables.CanUser(ctx, permissions.ProjectRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if err := composables.CanUser(ctx, permissions.ProjectRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Calendar returns the month view entries; any authenticated reader of
// projects sees the same feed.
func (s *ProjectService) Calendar(ctx context.Context, from, to time.Time) ([]project.CalendarEntry, error) {
	if err := composables.CanUser(ctx, permissions.ProjectRead); err != nil {
		return nil, err
	}
	return s.repo.Calendar(ctx, from, to)
}

func (s *ProjectService) Create(ctx context.Context, data *project.Project) (*project.Project, error) {
	if err := composables.CanUser(ctx, permissions.ProjectCreate); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&project.CreatedEvent{Result: data})
	return data, nil
}

func (s *ProjectService) Update(ctx context.Context, data *project.Project) (*project.Project, error) {
	if err := composables.CanUser(ctx, permissions.ProjectUpdate); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&project.UpdatedEvent{Result: data})
	return data, nil
}

func (s *ProjectService) Advance(ctx context.Context, id uuid.UUID, next project.Stage) (*project.Project, error) {
	if err := composables.CanUser(ctx, permissions.ProjectUpdate); err != nil {
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
	s.publisher.Publish(&project.StageChangedEvent{From: from, To: next, Result: entity})
	return entity, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := composables.CanUser(ctx, permissions.ProjectDelete); err != nil {
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
	s.publisher.Publish(&project.DeletedEvent{Result: deleted})
	return nil
}
