package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/cashbook"
	"github.com/arkiflo/arkiflo/modules/finance/domain/value_objects/moneyfmt"
	"github.com/arkiflo/arkiflo/modules/finance/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateEntryDTO struct {
	Kind        string `json:"kind" validate:"required,oneof=Debit Credit"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
	Amount      string `json:"amount" validate:"required"`
	GSTRate     string `json:"gstRate"`
	ProjectID   string `json:"projectId" validate:"omitempty,uuid"`
	EntryDate   string `json:"entryDate" validate:"omitempty,datetime=2006-01-02"`
}

type CloseDayDTO struct {
	Day string `json:"day" validate:"required,datetime=2006-01-02"`
}

type CloseMonthDTO struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

type EntryView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
	GSTRate     string `json:"gstRate"`
	GSTAmount   string `json:"gstAmount"`
	Gross       string `json:"gross"`
	Display     string `json:"display"`
	ProjectID   string `json:"projectId,omitempty"`
	EntryDate   string `json:"entryDate"`
}

func toEntryView(e *cashbook.Entry) EntryView {
	v := EntryView{
		ID:          e.ID().String(),
		Kind:        string(e.Kind()),
		Category:    e.Category(),
		Description: e.Description(),
		Amount:      e.Amount().StringFixed(2),
		GSTRate:     e.GSTRate().String(),
		GSTAmount:   e.GSTAmount().StringFixed(2),
		Gross:       e.Gross().StringFixed(2),
		Display:     moneyfmt.Format(e.Gross(), configuration.Use().Currency),
		EntryDate:   e.EntryDate().Format("2006-01-02"),
	}
	if e.ProjectID() != uuid.Nil {
		v.ProjectID = e.ProjectID().String()
	}
	return v
}

func NewCashbookController(app application.Application) application.Controller {
	return &CashbookController{
		cashbookService: app.Service(services.CashbookService{}).(*services.CashbookService),
	}
}

type CashbookController struct {
	cashbookService *services.CashbookService
}

func (c *CashbookController) Key() string {
	return "/api/finance/cashbook"
}

func (c *CashbookController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/finance/cashbook").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("/entries", c.List).Methods(http.MethodGet)
	router.HandleFunc("/entries", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/entries/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/entries/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/balance", c.Balance).Methods(http.MethodGet)
	router.HandleFunc("/close-day", c.CloseDay).Methods(http.MethodPost)
	router.HandleFunc("/close-month", c.CloseMonth).Methods(http.MethodPost)
	router.HandleFunc("/snapshots/{month}", c.Snapshot).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
}

func (c *CashbookController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	params := &cashbook.FindParams{
		Limit:  limit,
		Offset: offset,
		Kind:   cashbook.Kind(r.URL.Query().Get("kind")),
	}
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "projectId must be a UUID")
			return
		}
		params.ProjectID = id
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_DATE", "from must be YYYY-MM-DD")
			return
		}
		params.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_DATE", "to must be YYYY-MM-DD")
			return
		}
		params.To = to
	}
	entries, err := c.cashbookService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toEntryView(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *CashbookController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	entity, err := c.cashbookService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toEntryView(entity))
}

func (c *CashbookController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEntryDTO
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
	gstRate := decimal.Zero
	if dto.GSTRate != "" {
		gstRate, err = decimal.NewFromString(dto.GSTRate)
		if err != nil {
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_GST_RATE", "gstRate must be a decimal number")
			return
		}
	}
	opts := []cashbook.Option{
		cashbook.WithTenantID(tenantID),
		cashbook.WithDescription(dto.Description),
		cashbook.WithCreatedBy(actor.ID()),
	}
	if dto.ProjectID != "" {
		projectID, _ := uuid.Parse(dto.ProjectID)
		opts = append(opts, cashbook.WithProjectID(projectID))
	}
	if dto.EntryDate != "" {
		entryDate, _ := time.Parse("2006-01-02", dto.EntryDate)
		opts = append(opts, cashbook.WithEntryDate(entryDate))
	}
	data, err := cashbook.New(cashbook.Kind(dto.Kind), dto.Category, amount, gstRate, opts...)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	// Writing into a closed day needs both the override permission and an
	// explicit confirmation on the request.
	override := r.URL.Query().Get("override") == "true"
	if override && !httpapi.Confirmed(w, r) {
		return
	}
	created, err := c.cashbookService.Create(r.Context(), data, override)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toEntryView(created))
}

func (c *CashbookController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	if err := c.cashbookService.Delete(r.Context(), id); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"deleted": id.String()})
}

func (c *CashbookController) Balance(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_DATE", "asOf must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}
	totals, err := c.cashbookService.Balance(r.Context(), asOf)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"asOf":    asOf.Format("2006-01-02"),
		"debit":   totals.Debit.StringFixed(2),
		"credit":  totals.Credit.StringFixed(2),
		"balance": totals.Balance().StringFixed(2),
		"display": moneyfmt.Format(totals.Balance(), configuration.Use().Currency),
	})
}

func (c *CashbookController) CloseDay(w http.ResponseWriter, r *http.Request) {
	var dto CloseDayDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	day, _ := time.Parse("2006-01-02", dto.Day)
	closing, err := c.cashbookService.CloseDay(r.Context(), day)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"day":     closing.Day.Format("2006-01-02"),
		"balance": closing.Balance.StringFixed(2),
	})
}

func (c *CashbookController) CloseMonth(w http.ResponseWriter, r *http.Request) {
	var dto CloseMonthDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	snapshot, err := c.cashbookService.CloseMonth(r.Context(), dto.Month)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSnapshotView(snapshot))
}

func (c *CashbookController) Snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := c.cashbookService.GetSnapshot(r.Context(), mux.Vars(r)["month"])
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSnapshotView(snapshot))
}

func toSnapshotView(s *cashbook.MonthSnapshot) map[string]any {
	return map[string]any{
		"month":          s.Month,
		"totalDebit":     s.TotalDebit.StringFixed(2),
		"totalCredit":    s.TotalCredit.StringFixed(2),
		"closingBalance": s.ClosingBalance.StringFixed(2),
		"display":        moneyfmt.Format(s.ClosingBalance, configuration.Use().Currency),
	}
}

// Export downloads the book for a date range as a CSV attachment. The
// permission check runs before any header is written so denials still
// produce a JSON 403.
func (c *CashbookController) Export(w http.ResponseWriter, r *http.Request) {
	if err := composables.CanUser(r.Context(), permissions.FinanceRead); err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	var from, to time.Time
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_DATE", "from must be YYYY-MM-DD")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_DATE", "to must be YYYY-MM-DD")
			return
		}
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cashbook.csv"))
	if err := c.cashbookService.Export(r.Context(), w, from, to); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("exporting cashbook")
	}
}
