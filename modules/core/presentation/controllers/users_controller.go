package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arkiflo/arkiflo/modules/core/domain/aggregates/user"
	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateUserDTO struct {
	Name              string   `json:"name" validate:"required"`
	Email             string   `json:"email" validate:"required,email"`
	Role              string   `json:"role" validate:"required"`
	Password          string   `json:"password" validate:"required,min=8"`
	Permissions       []string `json:"permissions"`
	SeniorManagerView bool     `json:"seniorManagerView"`
}

type UpdateUserDTO struct {
	Name              string   `json:"name" validate:"required"`
	Role              string   `json:"role" validate:"required"`
	Permissions       []string `json:"permissions"`
	SeniorManagerView bool     `json:"seniorManagerView"`
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		userService: app.Service(services.UserService{}).(*services.UserService),
	}
}

type UsersController struct {
	userService *services.UserService
}

func (c *UsersController) Key() string {
	return "/api/core/users"
}

func (c *UsersController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/core/users").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	limit, offset := shared.Pagination(r)
	params := &user.FindParams{
		TenantID: tenantID,
		Search:   r.URL.Query().Get("search"),
		Limit:    limit,
		Offset:   offset,
	}
	users, err := c.userService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	total, err := c.userService.Count(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views, "total": total})
}

func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	u, err := c.userService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toUserView(u))
}

func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}

	data := user.New(
		dto.Name,
		dto.Email,
		role.Parse(dto.Role),
		user.WithTenantID(tenantID),
		user.WithPermissions(dto.Permissions),
		user.WithSeniorManagerView(dto.SeniorManagerView),
	)
	data, err = data.SetPassword(dto.Password)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}

	created, err := c.userService.Create(r.Context(), data)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toUserView(created))
}

func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto UpdateUserDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}

	existing, err := c.userService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	data := existing.
		SetName(dto.Name).
		SetRole(role.Parse(dto.Role)).
		SetPermissions(dto.Permissions).
		SetSeniorManagerView(dto.SeniorManagerView)

	updated, err := c.userService.Update(r.Context(), data)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toUserView(updated))
}

func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	if !httpapi.Confirmed(w, r) {
		return
	}
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	if err := c.userService.Delete(r.Context(), id); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
