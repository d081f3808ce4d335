package lead

import (
	"context"

	"github.com/arkiflo/arkiflo/pkg/serrors"
	"github.com/google/uuid"
)

var ErrBadTransition = serrors.NewError("LEAD_BAD_TRANSITION", "lead cannot move to the requested stage", "stage")

type FindParams struct {
	Limit    int
	Offset   int
	Stage    Stage
	Assignee uuid.UUID
	Query    string
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Lead, error)
	GetAll(ctx context.Context) ([]*Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	Create(ctx context.Context, l *Lead) error
	Update(ctx context.Context, l *Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
}
