package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/modules/services/services"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

type fakeRequestRepo struct {
	requests map[uuid.UUID]*request.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[uuid.UUID]*request.Request{}}
}

func (f *fakeRequestRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.requests)), nil
}

func (f *fakeRequestRepo) GetPaginated(_ context.Context, params *request.FindParams) ([]*request.Request, error) {
	var out []*request.Request
	for _, r := range f.requests {
		if params.Assignee != uuid.Nil && r.Assignee() != params.Assignee {
			continue
		}
		if params.Status != "" && r.Status() != params.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*request.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, serrors.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) Create(_ context.Context, r *request.Request) error {
	f.requests[r.ID()] = r
	return nil
}

func (f *fakeRequestRepo) Update(_ context.Context, r *request.Request) error {
	f.requests[r.ID()] = r
	return nil
}

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func slaOptions() configuration.ServiceLevelOptions {
	return configuration.ServiceLevelOptions{
		LowSLA:    120 * time.Hour,
		MediumSLA: 72 * time.Hour,
		HighSLA:   24 * time.Hour,
		UrgentSLA: 4 * time.Hour,
	}
}

func userCtx(u user.User) context.Context {
	return composables.WithUser(context.Background(), u)
}

func TestRequestService_CreateStampsSLADue(t *testing.T) {
	t.Parallel()
	svc := services.NewRequestService(newFakeRequestRepo(), quietBus(), slaOptions())
	requester := user.New("Requester", "req@arkiflo.test", role.Designer, user.WithPermissions([]string{permissions.RequestCreate}))

	before := time.Now()
	created, err := svc.Create(userCtx(requester), "AC not cooling", "", request.PriorityUrgent)
	require.NoError(t, err)

	assert.Equal(t, requester.ID(), created.Requester())
	assert.WithinDuration(t, before.Add(4*time.Hour), created.SLADue(), 5*time.Second)
}

func TestRequestService_CreateRequiresPermission(t *testing.T) {
	t.Parallel()
	svc := services.NewRequestService(newFakeRequestRepo(), quietBus(), slaOptions())
	stranger := user.New("Stranger", "s@arkiflo.test", role.Technician)
	_, err := svc.Create(userCtx(stranger), "Anything", "", request.PriorityLow)
	assert.ErrorIs(t, err, composables.ErrForbidden)
}

func TestRequestService_AssigneeCanAdvanceOwnRequest(t *testing.T) {
	t.Parallel()
	repo := newFakeRequestRepo()
	svc := services.NewRequestService(repo, quietBus(), slaOptions())

	manager := user.New("Ops", "ops@arkiflo.test", role.ProductionOpsManager,
		user.WithPermissions([]string{permissions.RequestCreate, permissions.RequestUpdate}))
	tech := user.New("Tech", "tech@arkiflo.test", role.Technician)

	created, err := svc.Create(userCtx(manager), "Door hinge loose", "", request.PriorityMedium)
	require.NoError(t, err)
	_, err = svc.Assign(userCtx(manager), created.ID(), tech.ID())
	require.NoError(t, err)

	// The technician advances without the update permission.
	updated, err := svc.Advance(userCtx(tech), created.ID(), request.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, request.StatusResolved, updated.Status())

	// Another technician cannot.
	other := user.New("Other", "other@arkiflo.test", role.Technician)
	_, err = svc.Advance(userCtx(other), created.ID(), request.StatusClosed)
	assert.ErrorIs(t, err, composables.ErrForbidden)
}

func TestRequestService_MyFiltersByAssignee(t *testing.T) {
	t.Parallel()
	repo := newFakeRequestRepo()
	svc := services.NewRequestService(repo, quietBus(), slaOptions())

	manager := user.New("Ops", "ops@arkiflo.test", role.ProductionOpsManager,
		user.WithPermissions([]string{permissions.RequestCreate, permissions.RequestUpdate}))
	tech := user.New("Tech", "tech@arkiflo.test", role.Technician)

	mine, err := svc.Create(userCtx(manager), "Mine", "", request.PriorityLow)
	require.NoError(t, err)
	_, err = svc.Create(userCtx(manager), "Unassigned", "", request.PriorityLow)
	require.NoError(t, err)
	_, err = svc.Assign(userCtx(manager), mine.ID(), tech.ID())
	require.NoError(t, err)

	got, err := svc.My(userCtx(tech), 25, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Title())
}
