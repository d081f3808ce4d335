package nav_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/pkg/nav"
	"github.com/arkiflo/arkiflo/pkg/types"
)

func names(items []types.NavigationItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func findByName(items []types.NavigationItem, name string) (types.NavigationItem, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return types.NavigationItem{}, false
}

func TestResolve_FirstEntryIsHomeDashboard(t *testing.T) {
	for _, r := range role.All() {
		items := nav.Resolve(r, false)
		require.NotEmpty(t, items, "role %s resolved to an empty menu", r)
		assert.Equal(t, nav.Home(r), items[0].Href, "role %s", r)
	}
}

func TestResolve_SeniorManagerViewIsAdditive(t *testing.T) {
	for _, r := range role.All() {
		base := nav.Resolve(r, false)
		withView := nav.Resolve(r, true)

		require.GreaterOrEqual(t, len(withView), len(base), "role %s", r)
		// The base set is always a prefix: the tail never replaces entries.
		for i, item := range base {
			assert.Equal(t, item.Href, withView[i].Href, "role %s entry %d", r, i)
			assert.Equal(t, item.ReadOnly, withView[i].ReadOnly, "role %s entry %d", r, i)
		}
		for _, added := range withView[len(base):] {
			assert.True(t, added.ReadOnly, "role %s appended entry %q must be read-only", r, added.Name)
		}
	}
}

func TestResolve_SeniorManagerViewTailContents(t *testing.T) {
	base := nav.Resolve(role.SalesManager, false)
	withView := nav.Resolve(role.SalesManager, true)

	tail := withView[len(base):]
	assert.Equal(t, []string{"Sales View", "Design View", "Production View", "CEO View"}, names(tail))
}

func TestResolve_UnknownRoleFallsBack(t *testing.T) {
	for _, s := range []string{"", "Intern", "SuperAdmin", "technician"} {
		var items []types.NavigationItem
		require.NotPanics(t, func() {
			items = nav.Resolve(role.Parse(s), true)
		}, "role string %q", s)
		assert.Equal(t, []string{"Dashboard", "Calendar", "Meetings", "My Profile"}, names(items), "role string %q", s)
	}
}

func TestResolve_LegacyRolesMapToCurrentMenus(t *testing.T) {
	cases := map[string]role.Role{
		"Manager":        role.SalesManager,
		"HybridDesigner": role.Designer,
		"OperationsLead": role.ProductionOpsManager,
		"Trainee":        role.PreSales,
	}
	for legacy, current := range cases {
		assert.Equal(t, nav.Resolve(current, false), nav.Resolve(role.Parse(legacy), false), "legacy role %s", legacy)
	}
}

func TestResolve_CharteredAccountantFinanceSubset(t *testing.T) {
	adminFinance, ok := findByName(nav.Resolve(role.Admin, false), "Finance")
	require.True(t, ok)
	auditFinance, ok := findByName(nav.Resolve(role.CharteredAccountant, false), "Finance")
	require.True(t, ok)

	require.NotEmpty(t, auditFinance.Children)
	require.Less(t, len(auditFinance.Children), len(adminFinance.Children), "must be a strict subset")

	full := make(map[string]bool, len(adminFinance.Children))
	for _, child := range adminFinance.Children {
		full[child.Name] = true
	}
	for _, child := range auditFinance.Children {
		assert.True(t, full[child.Name], "audit child %q missing from full set", child.Name)
	}

	for _, writeLabel := range []string{"Expense Requests", "Salaries"} {
		_, found := findByName(auditFinance.Children, writeLabel)
		assert.False(t, found, "audit finance must not contain %q", writeLabel)
	}
}

func TestResolve_TechnicianExactMenu(t *testing.T) {
	items := nav.Resolve(role.Technician, false)
	assert.Equal(t, []string{"My Requests", "Calendar", "Meetings", "My Profile"}, names(items))
	for _, item := range items {
		assert.False(t, strings.EqualFold(item.Name, "Finance"))
		assert.Empty(t, item.Children)
	}
}

func TestResolve_AdminMenu(t *testing.T) {
	items := nav.Resolve(role.Admin, false)
	require.GreaterOrEqual(t, len(items), 3)
	assert.Equal(t, []string{"Dashboard", "Calendar", "Meetings"}, names(items[:3]))

	fin, ok := findByName(items, "Finance")
	require.True(t, ok)
	assert.Equal(t, []string{
		"Overview", "Project Finance", "Cash Book", "Liabilities",
		"Expense Requests", "Receipts", "Salaries", "P&L Snapshot",
		"Reports", "Forecast", "Budgets", "Invoices", "Refunds",
		"Payment Reminders", "Recurring", "Daily Closing",
		"Monthly Snapshot", "Settings",
	}, names(fin.Children))
}

func TestResolve_IsPure(t *testing.T) {
	first := nav.Resolve(role.Admin, true)
	// Mutating a returned slice must not leak into later resolutions.
	first[0].Name = "mutated"

	second := nav.Resolve(role.Admin, true)
	assert.Equal(t, "Dashboard", second[0].Name)
	assert.Equal(t, second, nav.Resolve(role.Admin, true))
}

func TestResolve_ChildMutationDoesNotLeak(t *testing.T) {
	first := nav.Resolve(role.Admin, false)
	fin, ok := findByName(first, "Finance")
	require.True(t, ok)
	require.NotEmpty(t, fin.Children)
	fin.Children[0].Name = "mutated"

	second := nav.Resolve(role.Admin, false)
	fin2, ok := findByName(second, "Finance")
	require.True(t, ok)
	assert.Equal(t, "Overview", fin2.Children[0].Name)
}
