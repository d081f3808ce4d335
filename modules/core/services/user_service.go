package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) Count(ctx context.Context, params *user.FindParams) (int64, error) {
	if err := composables.CanUser(ctx, permissions.UserRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	if err := composables.CanUser(ctx, permissions.UserRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	if err := composables.CanUser(ctx, permissions.UserRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, data user.User) (user.User, error) {
	if err := composables.CanUser(ctx, permissions.UserCreate); err != nil {
		return nil, err
	}
	var created user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&user.CreatedEvent{Result: created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, data user.User) (user.User, error) {
	if err := composables.CanUser(ctx, permissions.UserUpdate); err != nil {
		return nil, err
	}
	var updated user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.Update(txCtx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&user.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := composables.CanUser(ctx, permissions.UserDelete); err != nil {
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
	s.publisher.Publish(&user.DeletedEvent{Result: deleted})
	return nil
}
