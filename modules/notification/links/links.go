package links

import "github.com/arkiflo/arkiflo/pkg/types"

var NotificationsLink = types.NavigationItem{
	Name: "Notifications",
	Icon: "bell",
	Href: "/notifications",
}
