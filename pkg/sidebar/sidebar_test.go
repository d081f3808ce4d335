package sidebar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/pkg/types"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	state := State{
		Collapsed:     true,
		ExpandedMenus: map[string]bool{"/finance": true},
	}
	require.NoError(t, store.Set(ctx, "user-1", state))

	// Fresh read simulates a reload.
	got := store.Get(ctx, "user-1")
	assert.Equal(t, state, got)
}

func TestStore_AbsentYieldsDefault(t *testing.T) {
	store := NewMemoryStore()
	got := store.Get(context.Background(), "nobody")
	assert.False(t, got.Collapsed)
	assert.Empty(t, got.ExpandedMenus)
	assert.NotNil(t, got.ExpandedMenus)
}

func TestStore_CorruptPayloadYieldsDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		got := decode([]byte("{not json"))
		assert.Equal(t, DefaultState(), got)
	})
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "user-1", State{Collapsed: true, ExpandedMenus: map[string]bool{}}))
	require.NoError(t, store.Clear(ctx, "user-1"))
	assert.Equal(t, DefaultState(), store.Get(ctx, "user-1"))
}

func TestExpandFor_AutoExpandsParentOfCurrentRoute(t *testing.T) {
	state := DefaultState()
	expanded := state.ExpandFor([]string{"/finance"}, "/finance/cashbook")
	assert.True(t, expanded.ExpandedMenus["/finance"])

	// One-way: navigating elsewhere keeps the submenu open.
	after := expanded.ExpandFor([]string{"/finance"}, "/projects")
	assert.True(t, after.ExpandedMenus["/finance"])
}

func TestExpandFor_ReopensExplicitlyCollapsedParent(t *testing.T) {
	// A manually collapsed submenu holds false in the map; the map size
	// stays the same when the route reopens it, so change detection must
	// compare contents, not length.
	state := State{ExpandedMenus: map[string]bool{"/finance": false}}
	expanded := state.ExpandFor([]string{"/finance"}, "/finance/cashbook")
	assert.True(t, expanded.ExpandedMenus["/finance"])
	assert.False(t, expanded.Equal(state))
}

func TestStateEqual(t *testing.T) {
	a := State{ExpandedMenus: map[string]bool{"/finance": true}}
	assert.True(t, a.Equal(State{ExpandedMenus: map[string]bool{"/finance": true}}))
	assert.False(t, a.Equal(State{ExpandedMenus: map[string]bool{"/finance": false}}))
	assert.False(t, a.Equal(State{Collapsed: true, ExpandedMenus: map[string]bool{"/finance": true}}))
}

func TestIsActive(t *testing.T) {
	cases := []struct {
		current string
		href    string
		want    bool
	}{
		{"/projects/123", "/projects", true},
		{"/projects", "/projects", true},
		{"/settings", "/projects", false},
		{"/projectsarchive", "/projects", false},
		{"/leads/7/notes", "/leads", true},
		{"/users/42", "/users", true},
		{"/reports/q3", "/reports", true},
		{"/finance/cashbook/2024-05-01", "/finance/cashbook", true},
		{"/finance/cashbook", "/finance/receipts", false},
		{"/meetings/42", "/meetings", false},
		{"/meetings", "/meetings", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsActive(tc.current, tc.href), "current=%s href=%s", tc.current, tc.href)
	}
}

func TestActiveItem_PrefersChildMatch(t *testing.T) {
	items := []types.NavigationItem{
		{Name: "Finance", Href: "/finance", Children: []types.NavigationItem{
			{Name: "Cash Book", Href: "/finance/cashbook"},
		}},
		{Name: "Projects", Href: "/projects"},
	}

	href, ok := ActiveItem(items, "/finance/cashbook")
	require.True(t, ok)
	assert.Equal(t, "/finance/cashbook", href)

	href, ok = ActiveItem(items, "/projects/9")
	require.True(t, ok)
	assert.Equal(t, "/projects", href)

	_, ok = ActiveItem(items, "/elsewhere")
	assert.False(t, ok)
}
