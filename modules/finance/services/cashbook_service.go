package services

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/cashbook"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrNothingToClose = serrors.NewError("CASHBOOK_NOTHING_TO_CLOSE", "the day is already closed", "day")
	ErrMonthOpen      = serrors.NewError("CASHBOOK_MONTH_OPEN", "every day of the month must be closed first", "month")
	ErrMonthSnapped   = serrors.NewError("CASHBOOK_MONTH_SNAPPED", "the month already has a snapshot", "month")
)

type CashbookService struct {
	repo      cashbook.Repository
	publisher eventbus.EventBus
}

func NewCashbookService(repo cashbook.Repository, publisher eventbus.EventBus) *CashbookService {
	return &CashbookService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *CashbookService) GetPaginated(ctx context.Context, params *cashbook.FindParams) ([]*cashbook.Entry, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *CashbookService) GetByID(ctx context.Context, id uuid.UUID) (*cashbook.Entry, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Balance is the tax-inclusive running balance up to and including asOf.
func (s *CashbookService) Balance(ctx context.Context, asOf time.Time) (cashbook.Totals, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return cashbook.Totals{}, err
	}
	return s.repo.Totals(ctx, time.Time{}, asOf)
}

// Create writes an entry. Entries dated on or before the last closed day
// are rejected; callers holding the lock override permission may pass
// override to write into a closed day anyway.
func (s *CashbookService) Create(ctx context.Context, data *cashbook.Entry, override bool) (*cashbook.Entry, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	if override {
		if err := composables.CanUser(ctx, permissions.FinanceOverride); err != nil {
			return nil, err
		}
	}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		lastClosed, err := s.repo.LastClosedDay(txCtx)
		if err != nil {
			return err
		}
		if !lastClosed.IsZero() && !data.EntryDate().After(lastClosed) && !override {
			return cashbook.ErrDayClosed
		}
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&cashbook.EntryCreatedEvent{Result: data, Override: override})
	return data, nil
}

func (s *CashbookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return err
	}
	deleted, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		lastClosed, err := s.repo.LastClosedDay(txCtx)
		if err != nil {
			return err
		}
		if !lastClosed.IsZero() && !deleted.EntryDate().After(lastClosed) {
			return cashbook.ErrDayClosed
		}
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(&cashbook.EntryDeletedEvent{Result: deleted})
	return nil
}

// CloseDay locks day and records its closing balance. Days close in order;
// closing a day also closes any earlier unclosed days implicitly since the
// lock horizon is the maximum closed day.
func (s *CashbookService) CloseDay(ctx context.Context, day time.Time) (*cashbook.DayClosing, error) {
	if err := composables.CanUser(ctx, permissions.FinanceClose); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var closing *cashbook.DayClosing
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		lastClosed, err := s.repo.LastClosedDay(txCtx)
		if err != nil {
			return err
		}
		if !lastClosed.IsZero() && !day.After(lastClosed) {
			return ErrNothingToClose
		}
		totals, err := s.repo.Totals(txCtx, time.Time{}, day)
		if err != nil {
			return err
		}
		closing = &cashbook.DayClosing{
			Day:      day,
			Balance:  totals.Balance(),
			ClosedBy: actor.ID(),
			ClosedAt: time.Now(),
		}
		return s.repo.CloseDay(txCtx, closing)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&cashbook.DayClosedEvent{Result: closing})
	return closing, nil
}

// CloseMonth freezes the month totals. It requires the whole month to be
// behind the closing horizon.
func (s *CashbookService) CloseMonth(ctx context.Context, month string) (*cashbook.MonthSnapshot, error) {
	if err := composables.CanUser(ctx, permissions.FinanceClose); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, serrors.NewError("CASHBOOK_BAD_MONTH", "month must be YYYY-MM", "month")
	}
	last := first.AddDate(0, 1, -1)

	var snapshot *cashbook.MonthSnapshot
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetSnapshot(txCtx, month); err == nil {
			return ErrMonthSnapped
		}
		lastClosed, err := s.repo.LastClosedDay(txCtx)
		if err != nil {
			return err
		}
		if lastClosed.Before(last) {
			return ErrMonthOpen
		}
		totals, err := s.repo.Totals(txCtx, first, last)
		if err != nil {
			return err
		}
		balance, err := s.repo.Totals(txCtx, time.Time{}, last)
		if err != nil {
			return err
		}
		snapshot = &cashbook.MonthSnapshot{
			Month:          month,
			TotalDebit:     totals.Debit,
			TotalCredit:    totals.Credit,
			ClosingBalance: balance.Balance(),
			CreatedBy:      actor.ID(),
			CreatedAt:      time.Now(),
		}
		return s.repo.CreateSnapshot(txCtx, snapshot)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&cashbook.MonthClosedEvent{Result: snapshot})
	return snapshot, nil
}

func (s *CashbookService) GetSnapshot(ctx context.Context, month string) (*cashbook.MonthSnapshot, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetSnapshot(ctx, month)
}

// Export streams the book for a date range as CSV, newest first.
func (s *CashbookService) Export(ctx context.Context, w io.Writer, from, to time.Time) error {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return err
	}
	entries, err := s.repo.GetPaginated(ctx, &cashbook.FindParams{
		From:  from,
		To:    to,
		Limit: 10000,
	})
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "kind", "category", "description", "amount", "gst_rate", "gst_amount", "gross"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.EntryDate().Format("2006-01-02"),
			string(e.Kind()),
			e.Category(),
			e.Description(),
			e.Amount().StringFixed(2),
			e.GSTRate().String(),
			e.GSTAmount().StringFixed(2),
			e.Gross().StringFixed(2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
