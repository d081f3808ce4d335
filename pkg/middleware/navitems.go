package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/constants"
	"github.com/arkiflo/arkiflo/pkg/nav"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
	"github.com/arkiflo/arkiflo/pkg/types"
)

// NavItems derives the sidebar for the authenticated user and rehydrates the
// persisted sidebar state, auto-expanding the parent of the current route.
// Unauthenticated requests pass through untouched.
func NavItems(store sidebar.Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := composables.UseUser(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			items := nav.Resolve(u.Role(), u.SeniorManagerView())
			state := store.Get(r.Context(), u.ID().String())
			expanded := state.ExpandFor(sidebar.ParentHrefs(items), r.URL.Path)
			if !expanded.Equal(state) {
				// Auto-expansion is persisted so it survives reloads.
				if err := store.Set(r.Context(), u.ID().String(), expanded); err != nil {
					composables.UseLogger(r.Context()).WithError(err).Warn("persist sidebar state")
				}
			}

			ctx := context.WithValue(r.Context(), constants.NavItemsKey, items)
			ctx = context.WithValue(ctx, constants.SidebarKey, expanded)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UseNavItems returns the sidebar entries resolved for the request.
func UseNavItems(ctx context.Context) ([]types.NavigationItem, bool) {
	items, ok := ctx.Value(constants.NavItemsKey).([]types.NavigationItem)
	return items, ok
}

// UseSidebarState returns the rehydrated sidebar state for the request.
func UseSidebarState(ctx context.Context) (sidebar.State, bool) {
	state, ok := ctx.Value(constants.SidebarKey).(sidebar.State)
	return state, ok
}
