package links

import "github.com/arkiflo/arkiflo/pkg/types"

var LeadsLink = types.NavigationItem{
	Name: "Leads",
	Icon: "funnel",
	Href: "/leads",
}
