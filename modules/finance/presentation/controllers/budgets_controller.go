package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/budget"
	"github.com/arkiflo/arkiflo/modules/finance/domain/value_objects/moneyfmt"
	"github.com/arkiflo/arkiflo/modules/finance/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateBudgetDTO struct {
	ProjectID   string `json:"projectId" validate:"required,uuid"`
	Category    string `json:"category" validate:"required"`
	Planned     string `json:"planned" validate:"required"`
	LockPercent string `json:"lockPercent"`
}

type UpdateBudgetDTO struct {
	Planned     string `json:"planned" validate:"required"`
	LockPercent string `json:"lockPercent"`
}

type BudgetView struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Category    string `json:"category"`
	Planned     string `json:"planned"`
	LockPercent string `json:"lockPercent"`
	Locked      string `json:"locked"`
	Spent       string `json:"spent"`
	SafeToUse   string `json:"safeToUse"`
	Display     string `json:"display"`
}

func toBudgetView(s services.BudgetStatus) BudgetView {
	return BudgetView{
		ID:          s.Budget.ID.String(),
		ProjectID:   s.Budget.ProjectID.String(),
		Category:    s.Budget.Category,
		Planned:     s.Budget.Planned.StringFixed(2),
		LockPercent: s.Budget.LockPercent.String(),
		Locked:      s.Budget.Locked().StringFixed(2),
		Spent:       s.Spent.StringFixed(2),
		SafeToUse:   s.SafeToUse.StringFixed(2),
		Display:     moneyfmt.Format(s.SafeToUse, configuration.Use().Currency),
	}
}

func NewBudgetsController(app application.Application) application.Controller {
	return &BudgetsController{
		budgetService: app.Service(services.BudgetService{}).(*services.BudgetService),
	}
}

type BudgetsController struct {
	budgetService *services.BudgetService
}

func (c *BudgetsController) Key() string {
	return "/api/finance/budgets"
}

func (c *BudgetsController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/finance/budgets").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.ListByProject).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *BudgetsController) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.URL.Query().Get("projectId"))
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "projectId must be a UUID")
		return
	}
	statuses, err := c.budgetService.StatusByProject(r.Context(), projectID)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]BudgetView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, toBudgetView(s))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *BudgetsController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateBudgetDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	projectID, _ := uuid.Parse(dto.ProjectID)
	planned, err := decimal.NewFromString(dto.Planned)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_PLANNED", "planned must be a decimal number")
		return
	}
	lockPercent := decimal.Zero
	if dto.LockPercent != "" {
		lockPercent, err = decimal.NewFromString(dto.LockPercent)
		if err != nil {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_LOCK_PERCENT", "lockPercent must be a decimal number")
			return
		}
	}
	data, err := budget.New(projectID, dto.Category, planned, lockPercent)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	data.TenantID = tenantID
	created, err := c.budgetService.Create(r.Context(), data)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toBudgetView(services.BudgetStatus{
		Budget:    created,
		Spent:     decimal.Zero,
		SafeToUse: created.SafeToUse(decimal.Zero),
	}))
}

func (c *BudgetsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto UpdateBudgetDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	entity, err := c.budgetService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	planned, err := decimal.NewFromString(dto.Planned)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_PLANNED", "planned must be a decimal number")
		return
	}
	entity.Planned = planned
	if dto.LockPercent != "" {
		lockPercent, err := decimal.NewFromString(dto.LockPercent)
		if err != nil {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_LOCK_PERCENT", "lockPercent must be a decimal number")
			return
		}
		entity.LockPercent = lockPercent
	}
	updated, err := c.budgetService.Update(r.Context(), entity)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toBudgetView(services.BudgetStatus{
		Budget:    updated,
		Spent:     decimal.Zero,
		SafeToUse: updated.SafeToUse(decimal.Zero),
	}))
}

func (c *BudgetsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	if err := c.budgetService.Delete(r.Context(), id); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"deleted": id.String()})
}
