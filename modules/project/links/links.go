package links

import "github.com/arkiflo/arkiflo/pkg/types"

var ProjectsLink = types.NavigationItem{
	Name: "Projects",
	Icon: "blueprint",
	Href: "/projects",
}
