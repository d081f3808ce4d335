package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/invoice"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type InvoiceService struct {
	repo      invoice.Repository
	publisher eventbus.EventBus
}

func NewInvoiceService(repo invoice.Repository, publisher eventbus.EventBus) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *InvoiceService) GetPaginated(ctx context.Context, params *invoice.FindParams) ([]*invoice.Invoice, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *InvoiceService) Receipts(ctx context.Context, invoiceID uuid.UUID) ([]*invoice.Receipt, error) {
	if err := composables.CanUser(ctx, permissions.FinanceRead); err != nil {
		return nil, err
	}
	return s.repo.ReceiptsFor(ctx, invoiceID)
}

func (s *InvoiceService) Create(ctx context.Context, data *invoice.Invoice) (*invoice.Invoice, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&invoice.CreatedEvent{Result: data})
	return data, nil
}

func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entity.Send(time.Now()); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&invoice.SentEvent{Result: entity})
	return entity, nil
}

// RecordReceipt books money received against an invoice and settles it
// once receipts cover the gross. Overpayment is rejected up front.
func (s *InvoiceService) RecordReceipt(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, method string) (*invoice.Invoice, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	actor, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	var entity *invoice.Invoice
	var paidBefore bool
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		entity, err = s.repo.GetByID(txCtx, invoiceID)
		if err != nil {
			return err
		}
		paidBefore = entity.Status() == invoice.StatusPaid
		received, err := s.repo.ReceivedTotal(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if err := entity.Settle(received.Add(amount)); err != nil {
			return err
		}
		receipt := &invoice.Receipt{
			ID:         uuid.New(),
			InvoiceID:  invoiceID,
			Amount:     amount,
			Method:     method,
			ReceivedAt: time.Now(),
			RecordedBy: actor.ID(),
		}
		if err := s.repo.CreateReceipt(txCtx, receipt); err != nil {
			return err
		}
		s.publisher.Publish(&invoice.ReceiptRecordedEvent{Result: receipt})
		return s.repo.Update(txCtx, entity)
	})
	if err != nil {
		return nil, err
	}
	if !paidBefore && entity.Status() == invoice.StatusPaid {
		s.publisher.Publish(&invoice.PaidEvent{Result: entity})
	}
	return entity, nil
}

func (s *InvoiceService) Void(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	if err := composables.CanUser(ctx, permissions.FinanceWrite); err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entity.Void(); err != nil {
		return nil, err
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, entity)
	}); err != nil {
		return nil, err
	}
	return entity, nil
}
