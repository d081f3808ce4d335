package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/expense"
	"github.com/arkiflo/arkiflo/modules/notification/domain/entities/notification"
	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

// NotificationService turns domain events into per-user notifications and
// serves the bell menu: list, unread count, mark read. Event handlers run
// outside any request, so writes go through the service's own pool.
type NotificationService struct {
	repo notification.Repository
	pool *pgxpool.Pool
	log  *logrus.Logger
}

func NewNotificationService(repo notification.Repository, pool *pgxpool.Pool, bus eventbus.EventBus, log *logrus.Logger) *NotificationService {
	s := &NotificationService{
		repo: repo,
		pool: pool,
		log:  log,
	}
	bus.Subscribe(s.onLeadCreated)
	bus.Subscribe(s.onRequestAssigned)
	bus.Subscribe(s.onExpenseDecided)
	return s
}

func (s *NotificationService) onLeadCreated(event *lead.CreatedEvent) {
	if event.Result.Assignee() == uuid.Nil {
		return
	}
	s.notify(notification.New(
		event.Result.Assignee(),
		notification.KindLeadAssigned,
		fmt.Sprintf("New lead assigned to you: %s", event.Result.Name()),
		notification.WithTenantID(event.Result.TenantID()),
	))
}

func (s *NotificationService) onRequestAssigned(event *request.AssignedEvent) {
	s.notify(notification.New(
		event.Result.Assignee(),
		notification.KindRequestAssigned,
		fmt.Sprintf("Service request assigned to you: %s", event.Result.Title()),
		notification.WithTenantID(event.Result.TenantID()),
	))
}

func (s *NotificationService) onExpenseDecided(event *expense.DecidedEvent) {
	verdict := "approved"
	if event.Result.Status == expense.StatusRejected {
		verdict = "rejected"
	}
	s.notify(notification.New(
		event.Result.Requester,
		notification.KindExpenseDecided,
		fmt.Sprintf("Your expense request was %s", verdict),
		notification.WithTenantID(event.Result.TenantID),
	))
}

func (s *NotificationService) notify(entity *notification.Notification) {
	if err := s.Notify(context.Background(), entity); err != nil {
		s.log.WithError(err).Error("writing notification")
	}
}

// Notify stores a notification. Internal API: callers are event handlers
// and the SLA sweep, not HTTP requests, so there is no permission check.
func (s *NotificationService) Notify(ctx context.Context, entity *notification.Notification) error {
	if s.pool != nil {
		ctx = composables.WithPool(ctx, s.pool)
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, entity)
	})
}

// My lists the caller's notifications, newest first.
func (s *NotificationService) My(ctx context.Context, limit, offset int, unreadOnly bool) ([]*notification.Notification, error) {
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, &notification.FindParams{
		Limit:      limit,
		Offset:     offset,
		Recipient:  actor.ID(),
		UnreadOnly: unreadOnly,
	})
}

// UnreadCount is the polling endpoint's payload. Clients hit it on a fixed
// interval, so it stays a single indexed COUNT.
func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.UnreadCount(ctx, actor.ID())
}

// MarkRead flips one notification. Only the recipient may do it.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.Recipient() != actor.ID() {
		return nil, composables.ErrForbidden
	}
	entity.MarkRead()
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkAllRead(txCtx, actor.ID())
	})
}
