package cashbook_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/finance/domain/aggregates/cashbook"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEntry_GSTDerivedAtConstruction(t *testing.T) {
	t.Parallel()
	e, err := cashbook.New(cashbook.KindDebit, "Materials", d("1000"), d("18"))
	require.NoError(t, err)

	assert.True(t, e.GSTAmount().Equal(d("180")))
	assert.True(t, e.Gross().Equal(d("1180")))
	assert.True(t, e.Signed().Equal(d("-1180")))
}

func TestEntry_SignedConvention(t *testing.T) {
	t.Parallel()
	credit, err := cashbook.New(cashbook.KindCredit, "Client Payment", d("5000"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, credit.Signed().Equal(d("5000")))
}

func TestEntry_Validation(t *testing.T) {
	t.Parallel()
	_, err := cashbook.New("Sideways", "Materials", d("100"), decimal.Zero)
	assert.ErrorIs(t, err, cashbook.ErrBadKind)

	_, err = cashbook.New(cashbook.KindDebit, "Materials", d("0"), decimal.Zero)
	assert.ErrorIs(t, err, cashbook.ErrBadAmount)

	_, err = cashbook.New(cashbook.KindDebit, "Materials", d("100"), d("17"))
	assert.ErrorIs(t, err, cashbook.ErrBadGSTRate)
}

func TestEntry_DateTruncatedToDay(t *testing.T) {
	t.Parallel()
	stamp := time.Date(2026, time.April, 9, 17, 45, 12, 0, time.UTC)
	e, err := cashbook.New(cashbook.KindDebit, "Materials", d("100"), decimal.Zero,
		cashbook.WithEntryDate(stamp))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.April, 9, 0, 0, 0, 0, time.UTC), e.EntryDate())
}
