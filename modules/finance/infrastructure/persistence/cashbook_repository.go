package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/cashbook"
	"github.com/arkiflo/arkiflo/modules/finance/infrastructure/persistence/models"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/mapping"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrEntryNotFound    = errors.Wrap(serrors.ErrNotFound, "cashbook entry")
	ErrSnapshotNotFound = errors.Wrap(serrors.ErrNotFound, "month snapshot")
)

const (
	entryFindQuery = `
		SELECT
			e.id,
			e.tenant_id,
			e.kind,
			e.category,
			e.description,
			e.amount,
			e.gst_rate,
			e.gst_amount,
			e.project_id,
			e.entry_date,
			e.created_by,
			e.created_at
		FROM cashbook_entries e`

	entryInsertQuery = `
		INSERT INTO cashbook_entries (id, tenant_id, kind, category, description, amount, gst_rate, gst_amount, project_id, entry_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	entryDeleteQuery = `DELETE FROM cashbook_entries WHERE id = $1 AND tenant_id = $2`

	entryTotalsQuery = `
		SELECT
			COALESCE(SUM(CASE WHEN e.kind = 'Debit' THEN e.amount + e.gst_amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN e.kind = 'Credit' THEN e.amount + e.gst_amount ELSE 0 END), 0)
		FROM cashbook_entries e
		WHERE e.tenant_id = $1 AND e.entry_date BETWEEN $2 AND $3`

	lastClosedDayQuery = `SELECT MAX(day) FROM daily_closings WHERE tenant_id = $1`

	closeDayQuery = `
		INSERT INTO daily_closings (tenant_id, day, balance, closed_by, closed_at)
		VALUES ($1, $2, $3, $4, $5)`

	snapshotFindQuery = `
		SELECT month, total_debit, total_credit, closing_balance, created_by, created_at
		FROM monthly_snapshots
		WHERE tenant_id = $1 AND month = $2`

	snapshotInsertQuery = `
		INSERT INTO monthly_snapshots (tenant_id, month, total_debit, total_credit, closing_balance, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

type CashbookRepository struct{}

func NewCashbookRepository() cashbook.Repository {
	return &CashbookRepository{}
}

func toDomainEntry(m *models.CashbookEntry) (*cashbook.Entry, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing entry id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing entry tenant id")
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "parsing entry amount")
	}
	gstRate, err := decimal.NewFromString(m.GSTRate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing entry gst rate")
	}
	entity, err := cashbook.New(
		cashbook.Kind(m.Kind),
		m.Category,
		amount,
		gstRate,
		cashbook.WithID(id),
		cashbook.WithTenantID(tenantID),
		cashbook.WithDescription(m.Description),
		cashbook.WithProjectID(mapping.SQLNullStringToUUID(m.ProjectID)),
		cashbook.WithEntryDate(m.EntryDate),
		cashbook.WithCreatedBy(mapping.SQLNullStringToUUID(m.CreatedBy)),
		cashbook.WithCreatedAt(m.CreatedAt),
	)
	if err != nil {
		return nil, errors.Wrap(err, "restoring cashbook entry")
	}
	return entity, nil
}

func (r *CashbookRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*cashbook.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying cashbook entries")
	}
	defer rows.Close()

	var out []*cashbook.Entry
	for rows.Next() {
		var m models.CashbookEntry
		if err := rows.Scan(
			&m.ID,
			&m.TenantID,
			&m.Kind,
			&m.Category,
			&m.Description,
			&m.Amount,
			&m.GSTRate,
			&m.GSTAmount,
			&m.ProjectID,
			&m.EntryDate,
			&m.CreatedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning cashbook entry")
		}
		entity, err := toDomainEntry(&m)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *CashbookRepository) GetPaginated(ctx context.Context, params *cashbook.FindParams) ([]*cashbook.Entry, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	where := []string{"e.tenant_id = $1"}
	args := []any{tenantID.String()}
	if params.Kind != "" {
		args = append(args, string(params.Kind))
		where = append(where, fmt.Sprintf("e.kind = $%d", len(args)))
	}
	if params.ProjectID != uuid.Nil {
		args = append(args, params.ProjectID.String())
		where = append(where, fmt.Sprintf("e.project_id = $%d", len(args)))
	}
	if !params.From.IsZero() {
		args = append(args, params.From)
		where = append(where, fmt.Sprintf("e.entry_date >= $%d", len(args)))
	}
	if !params.To.IsZero() {
		args = append(args, params.To)
		where = append(where, fmt.Sprintf("e.entry_date <= $%d", len(args)))
	}
	query := entryFindQuery + " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY e.entry_date DESC, e.created_at DESC"
	args = append(args, params.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))
	return r.queryEntries(ctx, query, args...)
}

func (r *CashbookRepository) GetByID(ctx context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := r.queryEntries(ctx, entryFindQuery+" WHERE e.id = $1 AND e.tenant_id = $2", id.String(), tenantID.String())
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEntryNotFound
	}
	return entries[0], nil
}

func (r *CashbookRepository) Create(ctx context.Context, e *cashbook.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		entryInsertQuery,
		e.ID().String(),
		e.TenantID().String(),
		string(e.Kind()),
		e.Category(),
		e.Description(),
		e.Amount().String(),
		e.GSTRate().String(),
		e.GSTAmount().String(),
		mapping.UUIDToSQLNullString(e.ProjectID()),
		e.EntryDate(),
		mapping.UUIDToSQLNullString(e.CreatedBy()),
		e.CreatedAt(),
	); err != nil {
		return errors.Wrap(err, "creating cashbook entry")
	}
	return nil
}

func (r *CashbookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, entryDeleteQuery, id.String(), tenantID.String()); err != nil {
		return errors.Wrap(err, "deleting cashbook entry")
	}
	return nil
}

func (r *CashbookRepository) Totals(ctx context.Context, from, to time.Time) (cashbook.Totals, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return cashbook.Totals{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return cashbook.Totals{}, err
	}
	var debit, credit string
	if err := tx.QueryRow(ctx, entryTotalsQuery, tenantID.String(), from, to).Scan(&debit, &credit); err != nil {
		return cashbook.Totals{}, errors.Wrap(err, "summing cashbook entries")
	}
	d, err := decimal.NewFromString(debit)
	if err != nil {
		return cashbook.Totals{}, errors.Wrap(err, "parsing debit total")
	}
	c, err := decimal.NewFromString(credit)
	if err != nil {
		return cashbook.Totals{}, errors.Wrap(err, "parsing credit total")
	}
	return cashbook.Totals{Debit: d, Credit: c}, nil
}

// LastClosedDay returns the zero time when the book has never been closed.
func (r *CashbookRepository) LastClosedDay(ctx context.Context) (time.Time, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return time.Time{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return time.Time{}, err
	}
	var day *time.Time
	if err := tx.QueryRow(ctx, lastClosedDayQuery, tenantID.String()).Scan(&day); err != nil {
		return time.Time{}, errors.Wrap(err, "querying last closed day")
	}
	if day == nil {
		return time.Time{}, nil
	}
	return *day, nil
}

func (r *CashbookRepository) CloseDay(ctx context.Context, closing *cashbook.DayClosing) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		closeDayQuery,
		tenantID.String(),
		closing.Day,
		closing.Balance.String(),
		closing.ClosedBy.String(),
		closing.ClosedAt,
	); err != nil {
		return errors.Wrap(err, "closing cashbook day")
	}
	return nil
}

func (r *CashbookRepository) GetSnapshot(ctx context.Context, month string) (*cashbook.MonthSnapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	var m models.MonthSnapshot
	if err := tx.QueryRow(ctx, snapshotFindQuery, tenantID.String(), month).Scan(
		&m.Month,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ClosingBalance,
		&m.CreatedBy,
		&m.CreatedAt,
	); err != nil {
		return nil, ErrSnapshotNotFound
	}
	totalDebit, err := decimal.NewFromString(m.TotalDebit)
	if err != nil {
		return nil, errors.Wrap(err, "parsing snapshot debit")
	}
	totalCredit, err := decimal.NewFromString(m.TotalCredit)
	if err != nil {
		return nil, errors.Wrap(err, "parsing snapshot credit")
	}
	closingBalance, err := decimal.NewFromString(m.ClosingBalance)
	if err != nil {
		return nil, errors.Wrap(err, "parsing snapshot balance")
	}
	createdBy, err := uuid.Parse(m.CreatedBy)
	if err != nil {
		return nil, errors.Wrap(err, "parsing snapshot author")
	}
	return &cashbook.MonthSnapshot{
		Month:          m.Month,
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		ClosingBalance: closingBalance,
		CreatedBy:      createdBy,
		CreatedAt:      m.CreatedAt,
	}, nil
}

func (r *CashbookRepository) CreateSnapshot(ctx context.Context, snapshot *cashbook.MonthSnapshot) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		snapshotInsertQuery,
		tenantID.String(),
		snapshot.Month,
		snapshot.TotalDebit.String(),
		snapshot.TotalCredit.String(),
		snapshot.ClosingBalance.String(),
		snapshot.CreatedBy.String(),
		snapshot.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "creating month snapshot")
	}
	return nil
}
