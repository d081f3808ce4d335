package sidebar

import (
	"strings"

	"github.com/arkiflo/arkiflo/pkg/types"
)

// prefixRoots are the list pages whose detail/sub-pages still highlight the
// list's entry: /projects/123 keeps /projects active. Everything else matches
// exactly, so /settings never lights up /setting.
var prefixRoots = map[string]bool{
	"/projects": true,
	"/users":    true,
	"/leads":    true,
	"/reports":  true,
}

// IsActive reports whether the entry at href should be highlighted for the
// current path: exact match, or an allow-listed prefix followed by a path
// separator. Finance children are always prefix-matchable.
func IsActive(currentPath, href string) bool {
	if currentPath == href {
		return true
	}
	if prefixRoots[href] || strings.HasPrefix(href, "/finance/") {
		return hasPathPrefix(currentPath, href)
	}
	return false
}

// ActiveItem walks the entries and returns the href of the active entry or
// child entry, preferring the deepest match.
func ActiveItem(items []types.NavigationItem, currentPath string) (string, bool) {
	for _, item := range items {
		for _, child := range item.Children {
			if IsActive(currentPath, child.Href) {
				return child.Href, true
			}
		}
		if IsActive(currentPath, item.Href) {
			return item.Href, true
		}
	}
	return "", false
}

// ParentHrefs lists hrefs of entries that carry children, as used by
// State.ExpandFor.
func ParentHrefs(items []types.NavigationItem) []string {
	var out []string
	for _, item := range items {
		if item.IsParent() {
			out = append(out, item.Href)
		}
	}
	return out
}

func hasPathPrefix(path, prefix string) bool {
	return strings.HasPrefix(path, prefix+"/")
}
