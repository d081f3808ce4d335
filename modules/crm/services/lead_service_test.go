package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/modules/crm/services"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

var errFakeNotFound = errors.New("lead not found")

type fakeLeadRepo struct {
	mu    sync.Mutex
	leads map[uuid.UUID]*lead.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[uuid.UUID]*lead.Lead{}}
}

func (f *fakeLeadRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.leads)), nil
}

func (f *fakeLeadRepo) GetPaginated(_ context.Context, _ *lead.FindParams) ([]*lead.Lead, error) {
	return f.all(), nil
}

func (f *fakeLeadRepo) GetAll(_ context.Context) ([]*lead.Lead, error) {
	return f.all(), nil
}

func (f *fakeLeadRepo) all() []*lead.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*lead.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out
}

func (f *fakeLeadRepo) GetByID(_ context.Context, id uuid.UUID) (*lead.Lead, error) {
	f.mu.Lock()
	l, ok := f.leads[id]
	f.mu.Unlock()
	if !ok {
		return nil, errFakeNotFound
	}
	return l, nil
}

func (f *fakeLeadRepo) Create(_ context.Context, l *lead.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[l.ID()] = l
	return nil
}

func (f *fakeLeadRepo) Update(_ context.Context, l *lead.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[l.ID()] = l
	return nil
}

func (f *fakeLeadRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.leads, id)
	return nil
}

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func actorCtx(r role.Role, perms ...string) context.Context {
	actor := user.New("Actor", "actor@arkiflo.test", r, user.WithPermissions(perms))
	return composables.WithUser(context.Background(), actor)
}

func TestLeadService_CreateRequiresPermission(t *testing.T) {
	t.Parallel()
	svc := services.NewLeadService(newFakeLeadRepo(), quietBus())
	data := lead.New("Greenfield Villa", lead.WithContact("+91 98200 00000"))

	_, err := svc.Create(actorCtx(role.Technician), data)
	assert.ErrorIs(t, err, composables.ErrForbidden)

	created, err := svc.Create(actorCtx(role.PreSales, permissions.LeadCreate), data)
	require.NoError(t, err)
	assert.Equal(t, "Greenfield Villa", created.Name())
}

func TestLeadService_AdvanceEnforcesFunnelOrder(t *testing.T) {
	t.Parallel()
	repo := newFakeLeadRepo()
	bus := quietBus()
	var changed *lead.StageChangedEvent
	bus.Subscribe(func(e *lead.StageChangedEvent) {
		changed = e
	})
	svc := services.NewLeadService(repo, bus)
	ctx := actorCtx(role.SalesManager, permissions.LeadCreate, permissions.LeadUpdate, permissions.LeadRead)

	created, err := svc.Create(ctx, lead.New("Greenfield Villa"))
	require.NoError(t, err)

	_, err = svc.Advance(ctx, created.ID(), lead.StageProposal)
	assert.ErrorIs(t, err, lead.ErrBadTransition)

	updated, err := svc.Advance(ctx, created.ID(), lead.StageContacted)
	require.NoError(t, err)
	assert.Equal(t, lead.StageContacted, updated.Stage())
	require.NotNil(t, changed)
	assert.Equal(t, lead.StageNew, changed.From)
	assert.Equal(t, lead.StageContacted, changed.To)
}

func TestLeadService_DeleteRequiresPermission(t *testing.T) {
	t.Parallel()
	repo := newFakeLeadRepo()
	svc := services.NewLeadService(repo, quietBus())
	ctx := actorCtx(role.Admin)

	created, err := svc.Create(ctx, lead.New("Greenfield Villa"))
	require.NoError(t, err)

	err = svc.Delete(actorCtx(role.Designer), created.ID())
	assert.ErrorIs(t, err, composables.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, created.ID()))
	_, err = svc.GetByID(ctx, created.ID())
	assert.Error(t, err)
}
