package links

import "github.com/arkiflo/arkiflo/pkg/types"

var ServiceRequestsLink = types.NavigationItem{
	Name: "Service Requests",
	Icon: "wrench",
	Href: "/requests",
}

var MyRequestsLink = types.NavigationItem{
	Name: "My Requests",
	Icon: "clipboard-text",
	Href: "/requests/my",
}
