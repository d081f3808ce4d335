package links

import "github.com/arkiflo/arkiflo/pkg/types"

var DashboardLink = types.NavigationItem{
	Name: "Dashboard",
	Icon: "gauge",
	Href: "/",
}

var CalendarLink = types.NavigationItem{
	Name: "Calendar",
	Icon: "calendar",
	Href: "/calendar",
}

var MeetingsLink = types.NavigationItem{
	Name: "Meetings",
	Icon: "users-three",
	Href: "/meetings",
}

var MyProfileLink = types.NavigationItem{
	Name: "My Profile",
	Icon: "user-circle",
	Href: "/profile",
}

var UsersLink = types.NavigationItem{
	Name: "Users",
	Icon: "users",
	Href: "/users",
}

var SettingsLink = types.NavigationItem{
	Name: "Settings",
	Icon: "gear",
	Href: "/settings",
}

var ReportsLink = types.NavigationItem{
	Name: "Reports",
	Icon: "chart-bar",
	Href: "/reports",
}

// Cross-role dashboard views appended for senior-manager entitlement only.
// Always tagged read-only before use; see nav.Resolve.
var (
	SalesViewLink = types.NavigationItem{
		Name: "Sales View",
		Icon: "presentation-chart",
		Href: "/dashboards/sales",
	}
	DesignViewLink = types.NavigationItem{
		Name: "Design View",
		Icon: "pen-nib",
		Href: "/dashboards/design",
	}
	ProductionViewLink = types.NavigationItem{
		Name: "Production View",
		Icon: "factory",
		Href: "/dashboards/production",
	}
	CEOViewLink = types.NavigationItem{
		Name: "CEO View",
		Icon: "crown",
		Href: "/dashboards/ceo",
	}
)

func roleDashboard(href string) types.NavigationItem {
	return types.NavigationItem{
		Name: "Dashboard",
		Icon: "gauge",
		Href: href,
	}
}

// Per-role home dashboards. The first navigation entry for a role is always
// its home dashboard.
var (
	PreSalesDashboardLink      = roleDashboard("/dashboards/presales")
	SalesDashboardLink         = roleDashboard("/dashboards/sales")
	DesignDashboardLink        = roleDashboard("/dashboards/design")
	DesignManagerDashboardLink = roleDashboard("/dashboards/design-manager")
	ProductionDashboardLink    = roleDashboard("/dashboards/production")
	AccountsDashboardLink      = roleDashboard("/dashboards/accounts")
	AuditDashboardLink         = roleDashboard("/dashboards/audit")
	CEODashboardLink           = roleDashboard("/dashboards/ceo")
)
