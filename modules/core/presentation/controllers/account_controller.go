package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/nav"
	"github.com/arkiflo/arkiflo/pkg/sidebar"
)

// AccountController serves the session surface the web client reads on every
// load: the authenticated user, the resolved navigation, and the persisted
// sidebar preferences.
func NewAccountController(app application.Application, store sidebar.Store) application.Controller {
	return &AccountController{store: store}
}

type AccountController struct {
	store sidebar.Store
}

func (c *AccountController) Key() string {
	return "/api/account"
}

func (c *AccountController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/account").Subrouter()
	router.Use(middleware.RequireAuth())
	router.HandleFunc("", c.Me).Methods(http.MethodGet)
	router.HandleFunc("/navigation", c.Navigation).Methods(http.MethodGet)
	router.HandleFunc("/sidebar", c.GetSidebar).Methods(http.MethodGet)
	router.HandleFunc("/sidebar", c.PutSidebar).Methods(http.MethodPut)
	router.HandleFunc("/sidebar", c.ClearSidebar).Methods(http.MethodDelete)
}

func (c *AccountController) Me(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toUserView(u))
}

// Navigation returns the role-scoped menu plus everything the sidebar needs
// to render: persisted state and the active entry for the reported path.
func (c *AccountController) Navigation(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}

	items := nav.Resolve(u.Role(), u.SeniorManagerView())
	state := c.store.Get(r.Context(), u.ID().String())

	currentPath := r.URL.Query().Get("path")
	if currentPath != "" {
		state = state.ExpandFor(sidebar.ParentHrefs(items), currentPath)
	}
	active, _ := sidebar.ActiveItem(items, currentPath)

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items":   items,
		"home":    nav.Home(u.Role()),
		"sidebar": state,
		"active":  active,
	})
}

func (c *AccountController) GetSidebar(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, c.store.Get(r.Context(), u.ID().String()))
}

func (c *AccountController) PutSidebar(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	var state sidebar.State
	if !httpapi.DecodeAndValidate(w, r, &state) {
		return
	}
	if state.ExpandedMenus == nil {
		state.ExpandedMenus = map[string]bool{}
	}
	if err := c.store.Set(r.Context(), u.ID().String(), state); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, state)
}

func (c *AccountController) ClearSidebar(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	if err := c.store.Clear(r.Context(), u.ID().String()); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
