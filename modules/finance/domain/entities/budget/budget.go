package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arkiflo/arkiflo/pkg/serrors"
)

var (
	ErrBadPlanned     = serrors.NewError("BUDGET_BAD_PLANNED", "planned amount must be positive", "planned")
	ErrBadLockPercent = serrors.NewError("BUDGET_BAD_LOCK_PERCENT", "lock percent must be between 0 and 100", "lockPercent")
)

var hundred = decimal.NewFromInt(100)

// Budget caps spend for one project category. The locked slice of the
// planned amount is held back as contingency and excluded from safe-to-use.
type Budget struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ProjectID   uuid.UUID
	Category    string
	Planned     decimal.Decimal
	LockPercent decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(projectID uuid.UUID, category string, planned, lockPercent decimal.Decimal) (*Budget, error) {
	if !planned.IsPositive() {
		return nil, ErrBadPlanned
	}
	if lockPercent.IsNegative() || lockPercent.GreaterThan(hundred) {
		return nil, ErrBadLockPercent
	}
	return &Budget{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Category:    category,
		Planned:     planned,
		LockPercent: lockPercent,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// Locked is the contingency slice of the planned amount.
func (b *Budget) Locked() decimal.Decimal {
	return b.Planned.Mul(b.LockPercent).Div(hundred).Round(2)
}

// SafeToUse is what remains spendable after the locked slice and actual
// spend. It can go negative when a category is overspent.
func (b *Budget) SafeToUse(spent decimal.Decimal) decimal.Decimal {
	return b.Planned.Sub(b.Locked()).Sub(spent)
}

type Repository interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]*Budget, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Budget, error)
	Create(ctx context.Context, b *Budget) error
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SpentFor sums tax-inclusive cash book debits for the project category.
	SpentFor(ctx context.Context, projectID uuid.UUID, category string) (decimal.Decimal, error)
}
