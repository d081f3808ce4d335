package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/invoice"
	"github.com/arkiflo/arkiflo/modules/finance/domain/value_objects/moneyfmt"
	"github.com/arkiflo/arkiflo/modules/finance/services"
	"github.com/arkiflo/arkiflo/pkg/application"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/httpapi"
	"github.com/arkiflo/arkiflo/pkg/middleware"
	"github.com/arkiflo/arkiflo/pkg/shared"
)

type CreateInvoiceDTO struct {
	Number    string `json:"number" validate:"required"`
	Client    string `json:"client" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	GSTRate   string `json:"gstRate"`
	ProjectID string `json:"projectId" validate:"omitempty,uuid"`
	DueDate   string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

type RecordReceiptDTO struct {
	Amount string `json:"amount" validate:"required"`
	Method string `json:"method" validate:"required,oneof=Cash Cheque Transfer UPI"`
}

type InvoiceView struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Client    string `json:"client"`
	ProjectID string `json:"projectId,omitempty"`
	Amount    string `json:"amount"`
	GSTRate   string `json:"gstRate"`
	GSTAmount string `json:"gstAmount"`
	Gross     string `json:"gross"`
	Display   string `json:"display"`
	Status    string `json:"status"`
	Overdue   bool   `json:"overdue"`
	DueDate   string `json:"dueDate,omitempty"`
}

func toInvoiceView(i *invoice.Invoice) InvoiceView {
	v := InvoiceView{
		ID:        i.ID().String(),
		Number:    i.Number(),
		Client:    i.Client(),
		Amount:    i.Amount().StringFixed(2),
		GSTRate:   i.GSTRate().String(),
		GSTAmount: i.GSTAmount().StringFixed(2),
		Gross:     i.Gross().StringFixed(2),
		Display:   moneyfmt.Format(i.Gross(), configuration.Use().Currency),
		Status:    string(i.Status()),
		Overdue:   i.Overdue(time.Now()),
	}
	if i.ProjectID() != uuid.Nil {
		v.ProjectID = i.ProjectID().String()
	}
	if !i.DueDate().IsZero() {
		v.DueDate = i.DueDate().Format("2006-01-02")
	}
	return v
}

type ReceiptView struct {
	ID         string `json:"id"`
	Amount     string `json:"amount"`
	Method     string `json:"method"`
	ReceivedAt string `json:"receivedAt"`
}

func NewInvoicesController(app application.Application) application.Controller {
	return &InvoicesController{
		invoiceService: app.Service(services.InvoiceService{}).(*services.InvoiceService),
	}
}

type InvoicesController struct {
	invoiceService *services.InvoiceService
}

func (c *InvoicesController) Key() string {
	return "/api/finance/invoices"
}

func (c *InvoicesController) Register(r *mux.Router) {
	router := r.PathPrefix("/api/finance/invoices").Subrouter()
	router.Use(middleware.RequireAuth(), middleware.WithTransaction())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/send", c.Send).Methods(http.MethodPost)
	router.HandleFunc("/{id}/receipts", c.Receipts).Methods(http.MethodGet)
	router.HandleFunc("/{id}/receipts", c.RecordReceipt).Methods(http.MethodPost)
	router.HandleFunc("/{id}/void", c.Void).Methods(http.MethodPost)
}

func (c *InvoicesController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.Pagination(r)
	params := &invoice.FindParams{
		Limit:  limit,
		Offset: offset,
		Status: invoice.Status(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "projectId must be a UUID")
			return
		}
		params.ProjectID = id
	}
	invoices, err := c.invoiceService.GetPaginated(r.Context(), params)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]InvoiceView, 0, len(invoices))
	for _, i := range invoices {
		views = append(views, toInvoiceView(i))
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *InvoicesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	entity, err := c.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toInvoiceView(entity))
}

func (c *InvoicesController) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateInvoiceDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
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
	opts := []invoice.Option{invoice.WithTenantID(tenantID)}
	if dto.ProjectID != "" {
		projectID, _ := uuid.Parse(dto.ProjectID)
		opts = append(opts, invoice.WithProjectID(projectID))
	}
	if dto.DueDate != "" {
		dueDate, _ := time.Parse("2006-01-02", dto.DueDate)
		opts = append(opts, invoice.WithDueDate(dueDate))
	}
	data, err := invoice.New(dto.Number, dto.Client, amount, gstRate, opts...)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	created, err := c.invoiceService.Create(r.Context(), data)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, toInvoiceView(created))
}

func (c *InvoicesController) Send(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	updated, err := c.invoiceService.Send(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toInvoiceView(updated))
}

func (c *InvoicesController) Receipts(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	receipts, err := c.invoiceService.Receipts(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	views := make([]ReceiptView, 0, len(receipts))
	for _, receipt := range receipts {
		views = append(views, ReceiptView{
			ID:         receipt.ID.String(),
			Amount:     receipt.Amount.StringFixed(2),
			Method:     receipt.Method,
			ReceivedAt: receipt.ReceivedAt.Format(time.RFC3339),
		})
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (c *InvoicesController) RecordReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	var dto RecordReceiptDTO
	if !httpapi.DecodeAndValidate(w, r, &dto) {
		return
	}
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "BAD_AMOUNT", "amount must be a decimal number")
		return
	}
	updated, err := c.invoiceService.RecordReceipt(r.Context(), id, amount, dto.Method)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toInvoiceView(updated))
}

func (c *InvoicesController) Void(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id must be a UUID")
		return
	}
	if !httpapi.Confirmed(w, r) {
		return
	}
	updated, err := c.invoiceService.Void(r.Context(), id)
	if err != nil {
		httpapi.RespondError(r.Context(), w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toInvoiceView(updated))
}
