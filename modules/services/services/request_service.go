package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type RequestService struct {
	repo      request.Repository
	publisher eventbus.EventBus
	sla       configuration.ServiceLevelOptions
}

func NewRequestService(repo request.Repository, publisher eventbus.EventBus, sla configuration.ServiceLevelOptions) *RequestService {
	return &RequestService{
		repo:      repo,
		publisher: publisher,
		sla:       sla,
	}
}

// Window is the resolution window granted to a request of the given priority.
func (s *RequestService) Window(priority request.Priority) time.Duration {
	switch priority {
	case request.PriorityUrgent:
		return s.sla.UrgentSLA
	case request.PriorityHigh:
		return s.sla.HighSLA
	case request.PriorityMedium:
		return s.sla.MediumSLA
	default:
		return s.sla.LowSLA
	}
}

func (s *RequestService) Count(ctx context.Context) (int64, error) {
	if err := composables.CanUser(ctx, permissions.RequestRead); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx)
}

func (s *RequestService) GetPaginated(ctx context.Context, params *request.FindParams) ([]*request.Request, error) {
	if err := composables.CanUser(ctx, permissions.RequestRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	if err := composables.CanUser(ctx, permissions.RequestRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// My lists the requests assigned to the calling user. Technicians work off
// this list; it needs no read permission beyond being signed in.
func (s *RequestService) My(ctx context.Context, limit, offset int) ([]*request.Request, error) {
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, &request.FindParams{
		Limit:    limit,
		Offset:   offset,
		Assignee: actor.ID(),
	})
}

// Create files a request on behalf of the calling user and stamps the SLA
// due time from the priority's resolution window.
func (s *RequestService) Create(ctx context.Context, title, description string, priority request.Priority) (*request.Request, error) {
	if err := composables.CanUser(ctx, permissions.RequestCreate); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := request.New(
		title,
		priority,
		request.WithTenantID(actor.TenantID()),
		request.WithDescription(description),
		request.WithRequester(actor.ID()),
		request.WithSLADue(time.Now().Add(s.Window(priority))),
	)
	if err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&request.CreatedEvent{Result: entity})
	return entity, nil
}

func (s *RequestService) Update(ctx context.Context, data *request.Request) (*request.Request, error) {
	if err := composables.CanUser(ctx, permissions.RequestUpdate); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&request.UpdatedEvent{Result: data})
	return data, nil
}

// Assign hands the request to a technician and moves it to InProgress.
func (s *RequestService) Assign(ctx context.Context, id, assignee uuid.UUID) (*request.Request, error) {
	if err := composables.CanUser(ctx, permissions.RequestUpdate); err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entity.Assign(assignee); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&request.AssignedEvent{Result: entity})
	return entity, nil
}

// Advance moves the request along the status flow. The assignee may advance
// their own request without the update permission.
func (s *RequestService) Advance(ctx context.Context, id uuid.UUID, next request.Status) (*request.Request, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	if actor.ID() != entity.Assignee() {
		if err := composables.CanUser(ctx, permissions.RequestUpdate); err != nil {
			return nil, err
		}
	}
	from := entity.Status()
	if err := entity.Advance(next); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&request.StatusChangedEvent{From: from, To: next, Result: entity})
	return entity, nil
}
