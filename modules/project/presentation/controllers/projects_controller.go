package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/project/domain/aggregates/project"
	"github.com/arkiflo/arkiflo/modules/project/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateProjectDTO struct {
	Name      string `json:"name" validate:"required"`
	Client    string `json:"client" validate:"required"`
	Designer  string `json:"designer" validate:"omitempty,uuid"`
	Value     string `json:"value"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProjectDTO struct {
	Name     string `json:"name" validate:"required"`
	Client   string `json:"client" validate:"required"`
	Designer string `json:"designer" validate:"omitempty,uuid"`
	Value    string `json:"value"`
	DueDate  string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

type AdvanceProjectDTO struct {
	Stage string `json:"stage" validate:"required"`
}

type ProjectView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Client    string    `json:"client"`
	Designer  string    `json:"designer,omitempty"`
	Stage     string    `json:"stage"`
	Value     string    `json:"value"`
	StartDate string    `json:"startDate,omitempty"`
	DueDate   string    `json:"dueDate,omitempty"`
	Overdue   bool      `json:"overdue"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProjectView(p *project.Project) ProjectView {
	v := ProjectView{
		ID:        p.ID().String(),
		Name:      p.Name(),
		Client:    p.Client(),
		Stage:     string(p.Stage()),
		Value:     p.Value().StringFixed(2),
		Overdue:   p.Overdue(time.Now()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
	if p.DesignerID() != uuid.Nil {
		v.Designer = p.DesignerID().String()
	}
	if !p.StartDate().IsZero() {
		v.StartDate = p.StartDate().Format("2006-01-02")
	}
	if !p.DueDate().IsZero() {
		v.DueDate = p.DueDate().Format("2006-01-02")
	}
	return v
}

type CalendarEntryView struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Stage     string `json:"stage"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
}

func NewProjectsController(app application.Application) application.Controller {
	return &ProjectsController{
		projectService: app.Service(services.ProjectService{}).(*services.ProjectService),
	}
}

type ProjectsController struct {
	projectService *services.ProjectService
}

func (c *ProjectsController) Key() string {
	return "/api/project/projects"
}

func (c *ProjectsController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/project").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("/projects", c.List).Methods(http.MethodGet)
	router.HandleFunc("/projects", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/calendar", c.Calendar).Methods(http.MethodGet)
	router.HandleFunc("/projects/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/projects/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/projects/{id}/stage", c.Advance).Methods(http.MethodPost)
	router.HandleFunc("/projects/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *ProjectsController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	params := &project.FindParams{
		Limit:  limit,
		Offset: offset,
		Stage:  project.Stage(r.URL.Query().Get("stage")),
		Query:  r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("designer"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "designer must be a UUID")
			return
		}
		params.Designer = id
	}
	projects, err := c.projectService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	total, err := c.projectService.Count(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, toProjectView(p))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views, "total": total})
}

// Calendar serves the month view. Month defaults to the current one; each
// fetch replaces the previous month's entries wholesale on the client, so a
// stale response for a month the user already navigated away from is simply
// not rendered.
func (c *ProjectsController) Calendar(w http.ResponseWriter, r *http.Request) {
	month := time.Now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_MONTH", "month must be YYYY-MM")
			return
		}
		month = parsed
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	entries, err := c.projectService.Calendar(r.Context(), from, to)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]CalendarEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, CalendarEntryView{
			ProjectID: e.ProjectID.String(),
			Name:      e.Name,
			Stage:     string(e.Stage),
			Date:      e.Date.Format("2006-01-02"),
			Kind:      e.Kind,
		})
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"month": from.Format("2006-01"),
		"items": views,
	})
}

func (c *ProjectsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	entity, err := c.projectService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toProjectView(entity))
}

func (c *ProjectsController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateProjectDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	value := decimal.Zero
	if dto.Value != "" {
		value, err = decimal.NewFromString(dto.Value)
		if err != nil {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_VALUE", "value must be a decimal number")
			return
		}
	}
	opts := []project.Option{
		project.WithTenantID(tenantID),
		project.WithClient(dto.Client),
		project.WithValue(value),
	}
	if dto.Designer != "" {
		designer, _ := uuid.Parse(dto.Designer)
		opts = append(opts, project.WithDesignerID(designer))
	}
	if dto.StartDate != "" {
		startDate, _ := time.Parse("2006-01-02", dto.StartDate)
		opts = append(opts, project.WithStartDate(startDate))
	}
	if dto.DueDate != "" {
		dueDate, _ := time.Parse("2006-01-02", dto.DueDate)
		opts = append(opts, project.WithDueDate(dueDate))
	}
	created, err := c.projectService.Create(r.Context(), project.New(dto.Name, opts...))
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toProjectView(created))
}

func (c *ProjectsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto UpdateProjectDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	entity, err := c.projectService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	entity.SetName(dto.Name)
	entity.SetClient(dto.Client)
	if dto.Designer != "" {
		designer, _ := uuid.Parse(dto.Designer)
		entity.SetDesignerID(designer)
	}
	if dto.Value != "" {
		value, err := decimal.NewFromString(dto.Value)
		if err != nil {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_VALUE", "value must be a decimal number")
			return
		}
		entity.SetValue(value)
	}
	if dto.DueDate != "" {
		dueDate, _ := time.Parse("2006-01-02", dto.DueDate)
		entity.SetDueDate(dueDate)
	}
	updated, err := c.projectService.Update(r.Context(), entity)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toProjectView(updated))
}

func (c *ProjectsController) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto AdvanceProjectDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	updated, err := c.projectService.Advance(r.Context(), id, project.Stage(dto.Stage))
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toProjectView(updated))
}

func (c *ProjectsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	if err := c.projectService.Delete(r.Context(), id); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"deleted": id.String()})
}
