package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/expense"
	"github.com/arkiflo/arkiflo/modules/finance/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateExpenseDTO struct {
	Amount    string `json:"amount" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	ProjectID string `json:"projectId" validate:"omitempty,uuid"`
}

type DecideExpenseDTO struct {
	Approved bool `json:"approved"`
}

type ExpenseView struct {
	ID        string `json:"id"`
	Requester string `json:"requester"`
	ProjectID string `json:"projectId,omitempty"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	DecidedBy string `json:"decidedBy,omitempty"`
	DecidedAt string `json:"decidedAt,omitempty"`
}

func toExpenseView(r *expense.Request) ExpenseView {
	v := ExpenseView{
		ID:        r.ID.String(),
		Requester: r.Requester.String(),
		Amount:    r.Amount.StringFixed(2),
		Reason:    r.Reason,
		Status:    string(r.Status),
	}
	if r.ProjectID != uuid.Nil {
		v.ProjectID = r.ProjectID.String()
	}
	if r.DecidedBy != uuid.Nil {
		v.DecidedBy = r.DecidedBy.String()
		v.DecidedAt = r.DecidedAt.Format(time.RFC3339)
	}
	return v
}

func NewExpensesController(app application.Application) application.Controller {
	return &ExpensesController{
		expenseService: app.Service(services.ExpenseService{}).(*services.ExpenseService),
	}
}

type ExpensesController struct {
	expenseService *services.ExpenseService
}

func (c *ExpensesController) Key() string {
	return "/api/finance/expenses"
}

func (c *ExpensesController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/finance/expenses").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/decision", c.Decide).Methods(http.MethodPost)
}

func (c *ExpensesController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	params := &expense.FindParams{
		Limit:  limit,
		Offset: offset,
		Status: expense.Status(r.URL.Query().Get("status")),
	}
	requests, err := c.expenseService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]ExpenseView, 0, len(requests))
	for _, req := range requests {
		views = append(views, toExpenseView(req))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *ExpensesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	entity, err := c.expenseService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toExpenseView(entity))
}

func (c *ExpensesController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	actor, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_AMOUNT", "amount must be a decimal number")
		return
	}
	data, err := expense.New(actor.ID(), amount, dto.Reason)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	data.TenantID = tenantID
	if dto.ProjectID != "" {
		projectID, _ := uuid.Parse(dto.ProjectID)
		data.ProjectID = projectID
	}
	created, err := c.expenseService.Create(r.Context(), data)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toExpenseView(created))
}

func (c *ExpensesController) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto DecideExpenseDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	updated, err := c.expenseService.Decide(r.Context(), id, dto.Approved)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toExpenseView(updated))
}
