// Package nav derives the sidebar menu for a session. The menu is a pure
// function of the user's role and the senior-manager-view entitlement: two
// users with the same pair always see the same entries, in the same order.
package nav

import (
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	corelinks "github.com/arkiflo/arkiflo/modules/core/links"
	crmlinks "github.com/arkiflo/arkiflo/modules/crm/links"
	financelinks "github.com/arkiflo/arkiflo/modules/finance/links"
	notificationlinks "github.com/arkiflo/arkiflo/modules/notification/links"
	projectlinks "github.com/arkiflo/arkiflo/modules/project/links"
	serviceslinks "github.com/arkiflo/arkiflo/modules/services/links"
	"github.com/arkiflo/arkiflo/pkg/types"
)

// fallback is what an unmapped role sees: the home dashboard plus the common
// items only. Resolve must never fail, whatever the stored role string says.
var fallback = []types.NavigationItem{
	corelinks.DashboardLink,
	corelinks.CalendarLink,
	corelinks.MeetingsLink,
	corelinks.MyProfileLink,
}

var base = map[role.Role][]types.NavigationItem{
	role.Admin: {
		corelinks.DashboardLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		crmlinks.LeadsLink,
		projectlinks.ProjectsLink,
		serviceslinks.ServiceRequestsLink,
		corelinks.UsersLink,
		financelinks.FinanceLink,
		notificationlinks.NotificationsLink,
		corelinks.SettingsLink,
	},
	role.Founder: {
		corelinks.CEODashboardLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		crmlinks.LeadsLink,
		projectlinks.ProjectsLink,
		financelinks.FinanceLink,
		corelinks.ReportsLink,
		corelinks.MyProfileLink,
	},
	role.PreSales: {
		corelinks.PreSalesDashboardLink,
		crmlinks.LeadsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.MyProfileLink,
	},
	role.SalesManager: {
		corelinks.SalesDashboardLink,
		crmlinks.LeadsLink,
		projectlinks.ProjectsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.ReportsLink,
		corelinks.MyProfileLink,
	},
	role.Designer: {
		corelinks.DesignDashboardLink,
		projectlinks.ProjectsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.MyProfileLink,
	},
	role.DesignManager: {
		corelinks.DesignManagerDashboardLink,
		projectlinks.ProjectsLink,
		crmlinks.LeadsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.ReportsLink,
		corelinks.MyProfileLink,
	},
	role.ProductionOpsManager: {
		corelinks.ProductionDashboardLink,
		projectlinks.ProjectsLink,
		serviceslinks.ServiceRequestsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.ReportsLink,
		corelinks.MyProfileLink,
	},
	role.Technician: {
		serviceslinks.MyRequestsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.MyProfileLink,
	},
	role.Accountant: {
		corelinks.AccountsDashboardLink,
		financelinks.FinanceLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.MyProfileLink,
	},
	role.SeniorAccountant: {
		corelinks.AccountsDashboardLink,
		financelinks.FinanceLink,
		corelinks.ReportsLink,
		corelinks.CalendarLink,
		corelinks.MeetingsLink,
		corelinks.MyProfileLink,
	},
	role.CharteredAccountant: {
		corelinks.AuditDashboardLink,
		financelinks.CharteredFinanceLink,
		corelinks.ReportsLink,
		corelinks.MyProfileLink,
	},
}

// seniorView lists the roles whose base set participates in the read-only
// cross-dashboard tail. The flag is additive only: it never replaces a
// role's own entries.
var seniorView = map[role.Role]bool{
	role.Admin:                true,
	role.Founder:              true,
	role.SalesManager:         true,
	role.DesignManager:        true,
	role.ProductionOpsManager: true,
	role.SeniorAccountant:     true,
}

func seniorViewTail() []types.NavigationItem {
	return []types.NavigationItem{
		corelinks.SalesViewLink.WithReadOnly(),
		corelinks.DesignViewLink.WithReadOnly(),
		corelinks.ProductionViewLink.WithReadOnly(),
		corelinks.CEOViewLink.WithReadOnly(),
	}
}

// Resolve returns the ordered sidebar entries for the role. The first entry
// is the role's home dashboard. Unknown roles get the fallback set.
func Resolve(r role.Role, seniorManagerView bool) []types.NavigationItem {
	items, ok := base[r]
	if !ok {
		items = fallback
	}

	// Children are copied too: callers may mutate the result without
	// bleeding into later resolutions.
	out := make([]types.NavigationItem, len(items))
	for i, item := range items {
		if len(item.Children) > 0 {
			children := make([]types.NavigationItem, len(item.Children))
			copy(children, item.Children)
			item.Children = children
		}
		out[i] = item
	}

	if seniorManagerView && seniorView[r] {
		out = append(out, seniorViewTail()...)
	}
	return out
}

// Home returns the role's designated home route, which is always the href of
// the first resolved entry.
func Home(r role.Role) string {
	return Resolve(r, false)[0].Href
}
