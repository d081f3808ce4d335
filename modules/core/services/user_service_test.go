package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/core/services"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]user.User{}}
}

func (f *fakeUserRepo) Count(_ context.Context, _ *user.FindParams) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) GetPaginated(_ context.Context, _ *user.FindParams) ([]user.User, error) {
	out := make([]user.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

var errFakeNotFound = errors.New("user not found")

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ uuid.UUID, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID()] = u
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID()] = u
	return u, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
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

func TestUserService_CreateRequiresPermission(t *testing.T) {
	t.Parallel()
	svc := services.NewUserService(newFakeUserRepo(), quietBus())
	data := user.New("Asha", "asha@arkiflo.test", role.Designer)

	_, err := svc.Create(actorCtx(role.Designer), data)
	assert.ErrorIs(t, err, composables.ErrForbidden)

	created, err := svc.Create(actorCtx(role.SalesManager, permissions.UserCreate), data)
	require.NoError(t, err)
	assert.Equal(t, "asha@arkiflo.test", created.Email())
}

func TestUserService_AdminBypassesPermissionChecks(t *testing.T) {
	t.Parallel()
	svc := services.NewUserService(newFakeUserRepo(), quietBus())
	data := user.New("Asha", "asha@arkiflo.test", role.Designer)

	_, err := svc.Create(actorCtx(role.Admin), data)
	assert.NoError(t, err)
}

func TestUserService_UnauthenticatedIsRejected(t *testing.T) {
	t.Parallel()
	svc := services.NewUserService(newFakeUserRepo(), quietBus())

	_, err := svc.GetPaginated(context.Background(), &user.FindParams{})
	assert.ErrorIs(t, err, composables.ErrUnauthorized)
}

func TestUserService_DeletePublishesEvent(t *testing.T) {
	t.Parallel()
	repo := newFakeUserRepo()
	bus := quietBus()
	var deleted user.User
	bus.Subscribe(func(e *user.DeletedEvent) {
		deleted = e.Result
	})
	svc := services.NewUserService(repo, bus)

	data := user.New("Asha", "asha@arkiflo.test", role.Designer)
	created, err := svc.Create(actorCtx(role.Admin), data)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(actorCtx(role.Admin), created.ID()))
	require.NotNil(t, deleted)
	assert.Equal(t, created.ID(), deleted.ID())
}
