package budget_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/finance/domain/entities/budget"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBudget_SafeToUse(t *testing.T) {
	t.Parallel()
	b, err := budget.New(uuid.New(), "Carpentry", d("100000"), d("10"))
	require.NoError(t, err)

	assert.True(t, b.Locked().Equal(d("10000")))
	assert.True(t, b.SafeToUse(d("25000")).Equal(d("65000")))

	// Overspend goes negative rather than clamping, so screens can flag it.
	assert.True(t, b.SafeToUse(d("95000")).IsNegative())
}

func TestBudget_ZeroLockPercent(t *testing.T) {
	t.Parallel()
	b, err := budget.New(uuid.New(), "Electrical", d("50000"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, b.SafeToUse(decimal.Zero).Equal(d("50000")))
}

func TestBudget_Validation(t *testing.T) {
	t.Parallel()
	_, err := budget.New(uuid.New(), "Carpentry", d("-1"), d("10"))
	assert.ErrorIs(t, err, budget.ErrBadPlanned)

	_, err = budget.New(uuid.New(), "Carpentry", d("1000"), d("101"))
	assert.ErrorIs(t, err, budget.ErrBadLockPercent)

	_, err = budget.New(uuid.New(), "Carpentry", d("1000"), d("-1"))
	assert.ErrorIs(t, err, budget.ErrBadLockPercent)
}
