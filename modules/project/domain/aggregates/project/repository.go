package project

import (
	"context"
	"time"

	"github.com/arkiflo/arkiflo/pkg/serrors"
	"github.com/google/uuid"
)

var ErrBadTransition = serrors.NewError("PROJECT_BAD_TRANSITION", "project cannot move to the requested stage", "stage")

type FindParams struct {
	Limit    int
	Offset   int
	Stage    Stage
	Designer uuid.UUID
	Query    string
}

// CalendarEntry is one dated row on the month view.
type CalendarEntry struct {
	ProjectID uuid.UUID
	Name      string
	Stage     Stage
	Date      time.Time
	Kind      string
}

const (
	CalendarKindStart = "start"
	CalendarKindDue   = "due"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Calendar(ctx context.Context, from, to time.Time) ([]CalendarEntry, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}
