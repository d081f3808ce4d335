package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/modules/crm/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateLeadDTO struct {
	Name     string `json:"name" validate:"required"`
	Contact  string `json:"contact" validate:"required"`
	Source   string `json:"source"`
	Estimate string `json:"estimate"`
	Assignee string `json:"assignee" validate:"omitempty,uuid"`
}

type UpdateLeadDTO struct {
	Name     string `json:"name" validate:"required"`
	Contact  string `json:"contact" validate:"required"`
	Source   string `json:"source"`
	Estimate string `json:"estimate"`
	Assignee string `json:"assignee" validate:"omitempty,uuid"`
}

type AdvanceLeadDTO struct {
	Stage string `json:"stage" validate:"required"`
}

type LeadView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Source    string    `json:"source"`
	Stage     string    `json:"stage"`
	Estimate  string    `json:"estimate"`
	Assignee  string    `json:"assignee,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toLeadView(l *lead.Lead) LeadView {
	v := LeadView{
		ID:        l.ID().String(),
		Name:      l.Name(),
		Contact:   l.Contact(),
		Source:    l.Source(),
		Stage:     string(l.Stage()),
		Estimate:  l.Estimate().StringFixed(2),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
	if l.Assignee() != uuid.Nil {
		v.Assignee = l.Assignee().String()
	}
	return v
}

type SuggestionView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stage string `json:"stage"`
}

func NewLeadsController(app application.Application) application.Controller {
	return &LeadsController{
		leadService:    app.Service(services.LeadService{}).(*services.LeadService),
		suggestService: app.Service(services.LeadSuggestService{}).(*services.LeadSuggestService),
	}
}

type LeadsController struct {
	leadService    *services.LeadService
	suggestService *services.LeadSuggestService
}

func (c *LeadsController) Key() string {
	return "/api/crm/leads"
}

func (c *LeadsController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/crm/leads").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/suggest", c.Suggest).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}/stage", c.Advance).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *LeadsController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	params := &lead.FindParams{
		Limit:  limit,
		Offset: offset,
		Stage:  lead.Stage(r.URL.Query().Get("stage")),
		Query:  r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("assignee"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "assignee must be a UUID")
			return
		}
		params.Assignee = id
	}
	leads, err := c.leadService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	total, err := c.leadService.Count(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]LeadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, toLeadView(l))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views, "total": total})
}

// Suggest serves the search box typeahead from the in-memory index. The
// index lags writes by the debounce window, which is acceptable for
// suggestions and keeps keystroke traffic off the database.
func (c *LeadsController) Suggest(w http.ResponseWriter, r *http.Request) {
	if err := composables.CanUser(r.Context(), permissions.LeadRead); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}
	matches := c.suggestService.Suggest(r.URL.Query().Get("q"), limit)
	views := make([]SuggestionView, 0, len(matches))
	for _, m := range matches {
		views = append(views, SuggestionView{ID: m.ID.String(), Name: m.Name, Stage: string(m.Stage)})
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *LeadsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	entity, err := c.leadService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toLeadView(entity))
}

func (c *LeadsController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateLeadDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	estimate, err := parseEstimate(dto.Estimate)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_ESTIMATE", "estimate must be a decimal number")
		return
	}
	opts := []lead.Option{
		lead.WithTenantID(tenantID),
		lead.WithContact(dto.Contact),
		lead.WithSource(dto.Source),
		lead.WithEstimate(estimate),
	}
	if dto.Assignee != "" {
		assignee, _ := uuid.Parse(dto.Assignee)
		opts = append(opts, lead.WithAssignee(assignee))
	}
	created, err := c.leadService.Create(r.Context(), lead.New(dto.Name, opts...))
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toLeadView(created))
}

func (c *LeadsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto UpdateLeadDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	entity, err := c.leadService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	estimate, err := parseEstimate(dto.Estimate)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_ESTIMATE", "estimate must be a decimal number")
		return
	}
	entity.SetName(dto.Name)
	entity.SetContact(dto.Contact)
	entity.SetEstimate(estimate)
	if dto.Assignee != "" {
		assignee, _ := uuid.Parse(dto.Assignee)
		entity.SetAssignee(assignee)
	}
	updated, err := c.leadService.Update(r.Context(), entity)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toLeadView(updated))
}

func (c *LeadsController) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto AdvanceLeadDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	updated, err := c.leadService.Advance(r.Context(), id, lead.Stage(dto.Stage))
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toLeadView(updated))
}

func (c *LeadsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	if err := c.leadService.Delete(r.Context(), id); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"deleted": id.String()})
}

func parseEstimate(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
