package types

// NavigationItem is a single sidebar entry. Parent entries carry nested
// children (the collapsible Finance section); flat entries have none.
type NavigationItem struct {
	Name     string           `json:"name"`
	Href     string           `json:"href"`
	Icon     string           `json:"icon,omitempty"`
	ReadOnly bool             `json:"readOnly,omitempty"`
	Children []NavigationItem `json:"children,omitempty"`
}

func (n NavigationItem) IsParent() bool {
	return len(n.Children) > 0
}

// WithReadOnly returns a copy of the item (and its children) tagged read-only.
func (n NavigationItem) WithReadOnly() NavigationItem {
	children := make([]NavigationItem, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child.WithReadOnly())
	}
	if len(children) == 0 {
		children = nil
	}
	return NavigationItem{
		Name:     n.Name,
		Href:     n.Href,
		Icon:     n.Icon,
		ReadOnly: true,
		Children: children,
	}
}
