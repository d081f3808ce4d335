package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/invoice"
	"github.com/arkiflo/arkiflo/modules/finance/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrInvoiceNotFound = errors.Wrap(serrors.ErrNotFound, "invoice")
)

const (
	invoiceFindQuery = `
		SELECT
			i.id,
			i.tenant_id,
			i.number,
			i.project_id,
			i.client,
			i.amount,
			i.gst_rate,
			i.gst_amount,
			i.status,
			i.due_date,
			i.issued_at,
			i.created_at,
			i.updated_at
		FROM invoices i`

	invoiceInsertQuery = `
		INSERT INTO invoices (id, tenant_id, number, project_id, client, amount, gst_rate, gst_amount, status, due_date, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	invoiceUpdateQuery = `
		UPDATE invoices
		SET status = $1, due_date = $2, issued_at = $3, updated_at = $4
		WHERE id = $5 AND tenant_id = $6`

	receiptInsertQuery = `
		INSERT INTO receipts (id, invoice_id, amount, method, received_at, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)`

	receiptFindQuery = `
		SELECT r.id, r.invoice_id, r.amount, r.method, r.received_at, r.recorded_by
		FROM receipts r
		JOIN invoices i ON i.id = r.invoice_id
		WHERE r.invoice_id = $1 AND i.tenant_id = $2
		ORDER BY r.received_at`

	receiptTotalQuery = `
		SELECT COALESCE(SUM(r.amount), 0)
		FROM receipts r
		JOIN invoices i ON i.id = r.invoice_id
		WHERE r.invoice_id = $1 AND i.tenant_id = $2`
)

type InvoiceRepository struct{}

func NewInvoiceRepository() invoice.Repository {
	return &InvoiceRepository{}
}

func toDomainInvoice(m *models.Invoice) (*invoice.Invoice, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing invoice id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing invoice tenant id")
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "parsing invoice amount")
	}
	gstRate, err := decimal.NewFromString(m.GSTRate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing invoice gst rate")
	}
	opts := []invoice.Option{
		invoice.WithID(id),
		invoice.WithTenantID(tenantID),
		invoice.WithProjectID(mapping.SQLNullStringToUUID(m.ProjectID)),
		invoice.WithStatus(invoice.Status(m.Status)),
		invoice.WithCreatedAt(m.CreatedAt),
		invoice.WithUpdatedAt(m.UpdatedAt),
	}
	if m.DueDate.Valid {
		opts = append(opts, invoice.WithDueDate(m.DueDate.Time))
	}
	if m.IssuedAt.Valid {
		opts = append(opts, invoice.WithIssuedAt(m.IssuedAt.Time))
	}
	entity, err := invoice.New(m.Number, m.Client, amount, gstRate, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "restoring invoice")
	}
	return entity, nil
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]*invoice.Invoice, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying invoices")
	}
	defer rows.Close()

	var out []*invoice.Invoice
	for rows.Next() {
		var m models.Invoice
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Number,
			&m.ProjectID,
			&m.Client,
			&m.Amount,
			&m.GSTRate,
			&m.GSTAmount,
			&m.Status,
			&m.DueDate,
			&m.IssuedAt,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning invoice")
		}
		entity, err := toDomainInvoice(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) GetPaginated(ctx context.Context, params *invoice.FindParams) ([]*invoice.Invoice, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"i.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if params.ProjectID != uuid.Nil {
		args = append(args, params.ProjectID.String())
		where = append(where, fmt.Sprintf("i.project_id = $%d", len(args)))
	}
	query := invoiceFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY i.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryInvoices(ctx, query, args...)
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := r.queryInvoices(ctx, invoiceFindQuery+" WHERE i.id = $1 AND i.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ErrInvoiceNotFound
	}
	return invoices[0], nil
}

func (r *InvoiceRepository) Create(ctx context.Context, i *invoice.Invoice) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		invoiceInsertQuery,
		i.ID().String(),
		i.TenantID().String(),
		i.Number(),
		mapping.UUIDToSQLNullString(i.ProjectID()),
		i.Client(),
		i.Amount().String(),
		i.GSTRate().String(),
		i.GSTAmount().String(),
		string(i.Status()),
		mapping.TimeToSQLNullTime(i.DueDate()),
		mapping.TimeToSQLNullTime(i.IssuedAt()),
		i.CreatedAt(),
		i.UpdatedAt(),
	); err != nil {
		return errors.Wrap(err, "creating invoice")
	}
	return nil
}

func (r *InvoiceRepository) Update(ctx context.Context, i *invoice.Invoice) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		invoiceUpdateQuery,
		string(i.Status()),
		mapping.TimeToSQLNullTime(i.DueDate()),
		mapping.TimeToSQLNullTime(i.IssuedAt()),
		i.UpdatedAt(),
		i.ID().String(),
		i.TenantID().String(),
	); err != nil {
		return errors.Wrap(err, "updating invoice")
	}
	return nil
}

func (r *InvoiceRepository) CreateReceipt(ctx context.Context, receipt *invoice.Receipt) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		receiptInsertQuery,
		receipt.ID.String(),
		receipt.InvoiceID.String(),
		receipt.Amount.String(),
		receipt.Method,
		receipt.ReceivedAt,
		mapping.UUIDToSQLNullString(receipt.RecordedBy),
	); err != nil {
		return errors.Wrap(err, "creating receipt")
	}
	return nil
}

func (r *InvoiceRepository) ReceiptsFor(ctx context.Context, invoiceID uuid.UUID) ([]*invoice.Receipt, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, receiptFindQuery, invoiceID.String(), tenantID.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying receipts")
	}
	defer rows.Close()

	var out []*invoice.Receipt
	for rows.Next() {
		var m models.Receipt
		if err := rows.Scan(&m.ID, &m.InvoiceID, &m.Amount, &m.Method, &m.ReceivedAt, &m.RecordedBy); err != nil {
			return nil, errors.Wrap(err, "scanning receipt")
		}
		id, err := uuid.Parse(m.ID)
		if err != nil {
			return nil, errors.Wrap(err, "parsing receipt id")
		}
		invID, err := uuid.Parse(m.InvoiceID)
		if err != nil {
			return nil, errors.Wrap(err, "parsing receipt invoice id")
		}
		amount, err := decimal.NewFromString(m.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "parsing receipt amount")
		}
		out = append(out, &invoice.Receipt{
			ID:         id,
			InvoiceID:  invID,
			Amount:     amount,
			Method:     m.Method,
			ReceivedAt: m.ReceivedAt,
			RecordedBy: mapping.SQLNullStringToUUID(m.RecordedBy),
		})
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) ReceivedTotal(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	var raw string
	if err := tx.QueryRow(ctx, receiptTotalQuery, invoiceID.String(), tenantID.String()).Scan(&raw); err != nil {
		return decimal.Zero, errors.Wrap(err, "summing receipts")
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "parsing receipt total")
	}
	return total, nil
}
