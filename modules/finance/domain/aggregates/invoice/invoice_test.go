package invoice_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/invoice"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoice_Lifecycle(t *testing.T) {
	t.Parallel()
	i, err := invoice.New("INV-001", "Acme Interiors", d("10000"), d("18"))
	require.NoError(t, err)
	require.Equal(t, invoice.StatusDraft, i.Status())
	assert.True(t, i.Gross().Equal(d("11800")))

	require.NoError(t, i.Send(time.Now()))
	assert.Equal(t, invoice.StatusSent, i.Status())
	assert.ErrorIs(t, i.Send(time.Now()), invoice.ErrBadStatus)

	// Partial receipts leave the invoice open.
	require.NoError(t, i.Settle(d("5000")))
	assert.Equal(t, invoice.StatusSent, i.Status())

	require.NoError(t, i.Settle(d("11800")))
	assert.Equal(t, invoice.StatusPaid, i.Status())
}

func TestInvoice_OverpaymentRejected(t *testing.T) {
	t.Parallel()
	i, err := invoice.New("INV-002", "Acme Interiors", d("1000"), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, i.Send(time.Now()))
	assert.ErrorIs(t, i.Settle(d("1000.01")), invoice.ErrOverpaid)
}

func TestInvoice_Overdue(t *testing.T) {
	t.Parallel()
	due := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	i, err := invoice.New("INV-003", "Acme Interiors", d("1000"), decimal.Zero,
		invoice.WithDueDate(due))
	require.NoError(t, err)

	// Drafts are never overdue.
	assert.False(t, i.Overdue(due.AddDate(0, 0, 5)))

	require.NoError(t, i.Send(due.AddDate(0, 0, -10)))
	assert.True(t, i.Overdue(due.AddDate(0, 0, 5)))
	assert.False(t, i.Overdue(due.AddDate(0, 0, -5)))
}

func TestInvoice_VoidRules(t *testing.T) {
	t.Parallel()
	i, err := invoice.New("INV-004", "Acme Interiors", d("1000"), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, i.Void())
	assert.ErrorIs(t, i.Void(), invoice.ErrBadStatus)

	paid, err := invoice.New("INV-005", "Acme Interiors", d("1000"), decimal.Zero,
		invoice.WithStatus(invoice.StatusPaid))
	require.NoError(t, err)
	assert.ErrorIs(t, paid.Void(), invoice.ErrBadStatus)
}
