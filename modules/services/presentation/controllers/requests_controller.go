package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/modules/services/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateRequestDTO struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"required,oneof=Low Medium High Urgent"`
}

type AssignRequestDTO struct {
	Assignee string `json:"assignee" validate:"required,uuid"`
}

type AdvanceRequestDTO struct {
	Status string `json:"status" validate:"required"`
}

type RequestView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Requester   string    `json:"requester"`
	Assignee    string    `json:"assignee,omitempty"`
	SLADue      time.Time `json:"slaDue"`
	Breached    bool      `json:"breached"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toRequestView(r *request.Request) RequestView {
	v := RequestView{
		ID:          r.ID().String(),
		Title:       r.Title(),
		Description: r.Description(),
		Priority:    string(r.Priority()),
		Status:      string(r.Status()),
		Requester:   r.Requester().String(),
		SLADue:      r.SLADue(),
		Breached:    r.Breached(time.Now()),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
	if r.Assignee() != uuid.Nil {
		v.Assignee = r.Assignee().String()
	}
	return v
}

func NewRequestsController(app application.Application) application.Controller {
	return &RequestsController{
		requestService: app.Service(services.RequestService{}).(*services.RequestService),
	}
}

type RequestsController struct {
	requestService *services.RequestService
}

func (c *RequestsController) Key() string {
	return "/api/services/requests"
}

func (c *RequestsController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/services/requests").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/my", c.My).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/assignee", c.Assign).Methods(http.MethodPost)
	router.HandleFunc("/{id}/status", c.Advance).Methods(http.MethodPost)
}

func (c *RequestsController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	params := &request.FindParams{
		Limit:    limit,
		Offset:   offset,
		Status:   request.Status(r.URL.Query().Get("status")),
		Priority: request.Priority(r.URL.Query().Get("priority")),
	}
	if raw := r.URL.Query().Get("assignee"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "assignee must be a UUID")
			return
		}
		params.Assignee = id
	}
	requests, err := c.requestService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	total, err := c.requestService.Count(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]RequestView, 0, len(requests))
	for _, entity := range requests {
		views = append(views, toRequestView(entity))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views, "total": total})
}

// My is the technician work queue: requests assigned to the caller.
func (c *RequestsController) My(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	requests, err := c.requestService.My(r.Context(), limit, offset)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]RequestView, 0, len(requests))
	for _, entity := range requests {
		views = append(views, toRequestView(entity))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *RequestsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	entity, err := c.requestService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toRequestView(entity))
}

func (c *RequestsController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRequestDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	created, err := c.requestService.Create(r.Context(), dto.Title, dto.Description, request.Priority(dto.Priority))
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toRequestView(created))
}

func (c *RequestsController) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto AssignRequestDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	assignee, err := uuid.Parse(dto.Assignee)
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "assignee must be a UUID")
		return
	}
	updated, err := c.requestService.Assign(r.Context(), id, assignee)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toRequestView(updated))
}

func (c *RequestsController) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto AdvanceRequestDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	updated, err := c.requestService.Advance(r.Context(), id, request.Status(dto.Status))
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toRequestView(updated))
}
