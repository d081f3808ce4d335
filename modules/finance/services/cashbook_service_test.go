package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/cashbook"
	"github.com/arkiflo/arkiflo/modules/finance/services"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

type fakeCashbookRepo struct {
	entries   map[uuid.UUID]*cashbook.Entry
	closings  map[uuid.UUID][]*cashbook.DayClosing
	snapshots map[string]*cashbook.MonthSnapshot
}

func newFakeCashbookRepo() *fakeCashbookRepo {
	return &fakeCashbookRepo{
		entries:   map[uuid.UUID]*cashbook.Entry{},
		closings:  map[uuid.UUID][]*cashbook.DayClosing{},
		snapshots: map[string]*cashbook.MonthSnapshot{},
	}
}

func tenantOf(ctx context.Context) uuid.UUID {
	id, _ := composables.UseTenantID(ctx)
	return id
}

func (f *fakeCashbookRepo) GetPaginated(_ context.Context, params *cashbook.FindParams) ([]*cashbook.Entry, error) {
	var out []*cashbook.Entry
	for _, e := range f.entries {
		if !params.From.IsZero() && e.EntryDate().Before(params.From) {
			continue
		}
		if !params.To.IsZero() && e.EntryDate().After(params.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeCashbookRepo) GetByID(_ context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, serrors.ErrNotFound
	}
	return e, nil
}

func (f *fakeCashbookRepo) Create(_ context.Context, e *cashbook.Entry) error {
	f.entries[e.ID()] = e
	return nil
}

func (f *fakeCashbookRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeCashbookRepo) Totals(_ context.Context, from, to time.Time) (cashbook.Totals, error) {
	totals := cashbook.Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, e := range f.entries {
		if !from.IsZero() && e.EntryDate().Before(from) {
			continue
		}
		if !to.IsZero() && e.EntryDate().After(to) {
			continue
		}
		if e.Kind() == cashbook.KindDebit {
			totals.Debit = totals.Debit.Add(e.Gross())
		} else {
			totals.Credit = totals.Credit.Add(e.Gross())
		}
	}
	return totals, nil
}

func (f *fakeCashbookRepo) LastClosedDay(ctx context.Context) (time.Time, error) {
	var last time.Time
	for _, c := range f.closings[tenantOf(ctx)] {
		if c.Day.After(last) {
			last = c.Day
		}
	}
	return last, nil
}

func (f *fakeCashbookRepo) CloseDay(ctx context.Context, closing *cashbook.DayClosing) error {
	tenantID := tenantOf(ctx)
	f.closings[tenantID] = append(f.closings[tenantID], closing)
	return nil
}

func (f *fakeCashbookRepo) GetSnapshot(_ context.Context, month string) (*cashbook.MonthSnapshot, error) {
	s, ok := f.snapshots[month]
	if !ok {
		return nil, serrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeCashbookRepo) CreateSnapshot(_ context.Context, snapshot *cashbook.MonthSnapshot) error {
	f.snapshots[snapshot.Month] = snapshot
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

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func entry(kind cashbook.Kind, amount string, on time.Time) *cashbook.Entry {
	e, err := cashbook.New(kind, "Materials", d(amount), d("18"), cashbook.WithEntryDate(on))
	if err != nil {
		panic(err)
	}
	return e
}

func TestCashbookService_ClosedDayRejectsWrites(t *testing.T) {
	t.Parallel()
	repo := newFakeCashbookRepo()
	svc := services.NewCashbookService(repo, quietBus())
	ctx := actorCtx(role.SeniorAccountant,
		permissions.FinanceRead, permissions.FinanceWrite, permissions.FinanceClose)

	_, err := svc.Create(ctx, entry(cashbook.KindCredit, "10000", day(2026, time.April, 9)), false)
	require.NoError(t, err)

	_, err = svc.CloseDay(ctx, day(2026, time.April, 9))
	require.NoError(t, err)

	// Same day and earlier are locked now.
	_, err = svc.Create(ctx, entry(cashbook.KindDebit, "500", day(2026, time.April, 9)), false)
	assert.ErrorIs(t, err, cashbook.ErrDayClosed)
	_, err = svc.Create(ctx, entry(cashbook.KindDebit, "500", day(2026, time.April, 1)), false)
	assert.ErrorIs(t, err, cashbook.ErrDayClosed)

	// The next day stays open.
	_, err = svc.Create(ctx, entry(cashbook.KindDebit, "500", day(2026, time.April, 10)), false)
	assert.NoError(t, err)
}

func TestCashbookService_CloseDayLocksOnlyOwnTenant(t *testing.T) {
	t.Parallel()
	repo := newFakeCashbookRepo()
	svc := services.NewCashbookService(repo, quietBus())

	closerFor := func(tenantID uuid.UUID) context.Context {
		actor := user.New("Actor", "actor@arkiflo.test", role.SeniorAccountant,
			user.WithTenantID(tenantID),
			user.WithPermissions([]string{permissions.FinanceRead, permissions.FinanceWrite, permissions.FinanceClose}))
		return composables.WithUser(context.Background(), actor)
	}
	alpha := closerFor(uuid.New())
	beta := closerFor(uuid.New())

	_, err := svc.CloseDay(alpha, day(2026, time.April, 9))
	require.NoError(t, err)

	// The lock binds only the tenant that closed its book.
	_, err = svc.Create(alpha, entry(cashbook.KindDebit, "500", day(2026, time.April, 9)), false)
	assert.ErrorIs(t, err, cashbook.ErrDayClosed)
	_, err = svc.Create(beta, entry(cashbook.KindDebit, "500", day(2026, time.April, 9)), false)
	assert.NoError(t, err)
}

func TestCashbookService_OverrideNeedsPermission(t *testing.T) {
	t.Parallel()
	repo := newFakeCashbookRepo()
	svc := services.NewCashbookService(repo, quietBus())
	closer := actorCtx(role.SeniorAccountant,
		permissions.FinanceRead, permissions.FinanceWrite, permissions.FinanceClose)

	_, err := svc.CloseDay(closer, day(2026, time.April, 9))
	require.NoError(t, err)

	// Write permission alone is not enough to pierce the lock.
	writer := actorCtx(role.Accountant, permissions.FinanceWrite)
	_, err = svc.Create(writer, entry(cashbook.KindDebit, "500", day(2026, time.April, 9)), true)
	assert.ErrorIs(t, err, composables.ErrForbidden)

	overrider := actorCtx(role.CharteredAccountant, permissions.FinanceWrite, permissions.FinanceOverride)
	_, err = svc.Create(overrider, entry(cashbook.KindDebit, "500", day(2026, time.April, 9)), true)
	assert.NoError(t, err)
}

func TestCashbookService_CloseDayComputesBalance(t *testing.T) {
	t.Parallel()
	repo := newFakeCashbookRepo()
	svc := services.NewCashbookService(repo, quietBus())
	ctx := actorCtx(role.SeniorAccountant,
		permissions.FinanceRead, permissions.FinanceWrite, permissions.FinanceClose)

	_, err := svc.Create(ctx, entry(cashbook.KindCredit, "10000", day(2026, time.April, 8)), false)
	require.NoError(t, err)
	_, err = svc.Create(ctx, entry(cashbook.KindDebit, "1000", day(2026, time.April, 9)), false)
	require.NoError(t, err)

	closing, err := svc.CloseDay(ctx, day(2026, time.April, 9))
	require.NoError(t, err)
	// 10000*1.18 credit - 1000*1.18 debit
	assert.True(t, closing.Balance.Equal(d("10620")), closing.Balance.String())

	_, err = svc.CloseDay(ctx, day(2026, time.April, 9))
	assert.ErrorIs(t, err, services.ErrNothingToClose)
}

func TestCashbookService_CloseMonthRequiresClosedDays(t *testing.T) {
	t.Parallel()
	repo := newFakeCashbookRepo()
	svc := services.NewCashbookService(repo, quietBus())
	ctx := actorCtx(role.SeniorAccountant,
		permissions.FinanceRead, permissions.FinanceWrite, permissions.FinanceClose)

	_, err := svc.Create(ctx, entry(cashbook.KindCredit, "10000", day(2026, time.April, 15)), false)
	require.NoError(t, err)

	_, err = svc.CloseMonth(ctx, "2026-04")
	assert.ErrorIs(t, err, services.ErrMonthOpen)

	_, err = svc.CloseDay(ctx, day(2026, time.April, 30))
	require.NoError(t, err)

	snapshot, err := svc.CloseMonth(ctx, "2026-04")
	require.NoError(t, err)
	assert.True(t, snapshot.TotalCredit.Equal(d("11800")))
	assert.True(t, snapshot.ClosingBalance.Equal(d("11800")))

	_, err = svc.CloseMonth(ctx, "2026-04")
	assert.ErrorIs(t, err, services.ErrMonthSnapped)
}

func TestCashbookService_CloseNeedsClosePermission(t *testing.T) {
	t.Parallel()
	svc := services.NewCashbookService(newFakeCashbookRepo(), quietBus())
	ctx := actorCtx(role.Accountant, permissions.FinanceRead, permissions.FinanceWrite)
	_, err := svc.CloseDay(ctx, day(2026, time.April, 9))
	assert.ErrorIs(t, err, composables.ErrForbidden)
}
