package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/entities/tenant"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/notification/domain/entities/notification"
	"github.com/arkiflo/arkiflo/modules/notification/services"
	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[uuid.UUID]*notification.Notification{}}
}

func (f *fakeNotificationRepo) GetPaginated(_ context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*notification.Notification
	for _, n := range f.notifications {
		if params.Recipient != uuid.Nil && n.Recipient() != params.Recipient {
			continue
		}
		if params.UnreadOnly && n.Read() {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return nil, serrors.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, recipient uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.Recipient() == recipient && !n.Read() {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID()] = n
	return nil
}

func (f *fakeNotificationRepo) Update(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID()] = n
	return nil
}

func (f *fakeNotificationRepo) LatestOfKind(_ context.Context, kind notification.Kind) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest time.Time
	for _, n := range f.notifications {
		if n.Kind() == kind && n.CreatedAt().After(latest) {
			latest = n.CreatedAt()
		}
	}
	return latest, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipient uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.Recipient() == recipient {
			n.MarkRead()
		}
	}
	return nil
}

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNotificationService_RequestAssignmentNotifiesTechnician(t *testing.T) {
	t.Parallel()
	repo := newFakeNotificationRepo()
	bus := quietBus()
	svc := services.NewNotificationService(repo, nil, bus, quietLog())

	tech := user.New("Tech", "tech@arkiflo.test", role.Technician)
	entity, err := request.New("AC not cooling", request.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, entity.Assign(tech.ID()))

	bus.Publish(&request.AssignedEvent{Result: entity})

	ctx := composables.WithUser(context.Background(), tech)
	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err := svc.My(ctx, 25, 0, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, notification.KindRequestAssigned, got[0].Kind())
}

func TestNotificationService_MarkReadOnlyByRecipient(t *testing.T) {
	t.Parallel()
	repo := newFakeNotificationRepo()
	svc := services.NewNotificationService(repo, nil, quietBus(), quietLog())

	recipient := user.New("Mine", "mine@arkiflo.test", role.Designer)
	n := notification.New(recipient.ID(), notification.KindExpenseDecided, "Your expense request was approved")
	require.NoError(t, svc.Notify(context.Background(), n))

	stranger := user.New("Other", "other@arkiflo.test", role.Designer)
	_, err := svc.MarkRead(composables.WithUser(context.Background(), stranger), n.ID())
	assert.ErrorIs(t, err, composables.ErrForbidden)

	updated, err := svc.MarkRead(composables.WithUser(context.Background(), recipient), n.ID())
	require.NoError(t, err)
	assert.True(t, updated.Read())

	count, err := svc.UnreadCount(composables.WithUser(context.Background(), recipient))
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

type fakeRequestRepo struct {
	requests []*request.Request
}

func (f *fakeRequestRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.requests)), nil
}

func (f *fakeRequestRepo) GetPaginated(_ context.Context, params *request.FindParams) ([]*request.Request, error) {
	var out []*request.Request
	for _, r := range f.requests {
		if params.Status != "" && r.Status() != params.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*request.Request, error) {
	for _, r := range f.requests {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, serrors.ErrNotFound
}

func (f *fakeRequestRepo) Create(_ context.Context, r *request.Request) error {
	f.requests = append(f.requests, r)
	return nil
}

func (f *fakeRequestRepo) Update(_ context.Context, _ *request.Request) error {
	return nil
}

type fakeTenantRepo struct {
	tenants []*tenant.Tenant
}

func (f *fakeTenantRepo) GetAll(_ context.Context) ([]*tenant.Tenant, error) {
	return f.tenants, nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, serrors.ErrNotFound
}

func (f *fakeTenantRepo) GetByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.Domain() == domain {
			return t, nil
		}
	}
	return nil, serrors.ErrNotFound
}

func (f *fakeTenantRepo) Create(_ context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	f.tenants = append(f.tenants, t)
	return t, nil
}

func (f *fakeTenantRepo) Update(_ context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return t, nil
}

func TestSLASweeper_NotifiesBreachOnce(t *testing.T) {
	t.Parallel()
	tech := uuid.New()

	overdue, err := request.New("Water leak", request.PriorityUrgent,
		request.WithSLADue(time.Now().Add(30*time.Millisecond)))
	require.NoError(t, err)
	require.NoError(t, overdue.Assign(tech))

	onTime, err := request.New("Paint touch-up", request.PriorityLow,
		request.WithSLADue(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, onTime.Assign(tech))

	notificationRepo := newFakeNotificationRepo()
	notificationService := services.NewNotificationService(notificationRepo, nil, quietBus(), quietLog())
	tenants := &fakeTenantRepo{tenants: []*tenant.Tenant{tenant.New("Arkiflo Interiors")}}
	sweeper := services.NewSLASweeper(tenants, &fakeRequestRepo{requests: []*request.Request{overdue, onTime}}, notificationService, nil, quietLog())

	time.Sleep(50 * time.Millisecond)
	sweeper.Sweep(context.Background())
	// A second pass must not duplicate the alert.
	sweeper.Sweep(context.Background())

	count, err := notificationRepo.UnreadCount(context.Background(), tech)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSLASweeper_CatchesBreachFromBeforeRestart(t *testing.T) {
	t.Parallel()
	tech := uuid.New()

	// Lapsed an hour ago, while no sweeper was running.
	missed, err := request.New("Compressor failure", request.PriorityUrgent,
		request.WithSLADue(time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	require.NoError(t, missed.Assign(tech))

	notificationRepo := newFakeNotificationRepo()
	notificationService := services.NewNotificationService(notificationRepo, nil, quietBus(), quietLog())
	tenants := &fakeTenantRepo{tenants: []*tenant.Tenant{tenant.New("Arkiflo Interiors")}}
	requests := &fakeRequestRepo{requests: []*request.Request{missed}}

	sweeper := services.NewSLASweeper(tenants, requests, notificationService, nil, quietLog())
	sweeper.Sweep(context.Background())

	count, err := notificationRepo.UnreadCount(context.Background(), tech)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// A fresh sweeper over the same store resumes from the recorded
	// notification instead of alerting again.
	restarted := services.NewSLASweeper(tenants, requests, notificationService, nil, quietLog())
	restarted.Sweep(context.Background())

	count, err = notificationRepo.UnreadCount(context.Background(), tech)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPoller_StopsOnCancel(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	ticks := 0
	poller := services.NewPoller(10*time.Millisecond, quietLog(), func(_ context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	poller.Start(ctx)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ticks >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	poller.Wait()

	mu.Lock()
	final := ticks
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, final, ticks)
	mu.Unlock()
}
