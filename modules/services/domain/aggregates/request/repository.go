package request

import (
	"context"

	"github.com/arkiflo/arkiflo/pkg/serrors"
	"github.com/google/uuid"
)

var (
	ErrBadPriority   = serrors.NewError("REQUEST_BAD_PRIORITY", "priority must be Low, Medium, High or Urgent", "priority")
	ErrBadTransition = serrors.NewError("REQUEST_BAD_TRANSITION", "request cannot move to the requested status", "status")
)

type FindParams struct {
	Limit    int
	Offset   int
	Status   Status
	Priority Priority
	Assignee uuid.UUID
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Create(ctx context.Context, r *Request) error
	Update(ctx context.Context, r *Request) error
}
