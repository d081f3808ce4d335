package request_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
)

func TestRequest_StatusFlowForwardOnly(t *testing.T) {
	t.Parallel()
	r, err := request.New("AC not cooling", request.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, request.StatusOpen, r.Status())

	require.NoError(t, r.Advance(request.StatusInProgress))
	require.NoError(t, r.Advance(request.StatusResolved))
	require.NoError(t, r.Advance(request.StatusClosed))

	assert.ErrorIs(t, r.Advance(request.StatusOpen), request.ErrBadTransition)
}

func TestRequest_SkipRejected(t *testing.T) {
	t.Parallel()
	r, err := request.New("Door hinge loose", request.PriorityLow)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Advance(request.StatusResolved), request.ErrBadTransition)
	assert.ErrorIs(t, r.Advance(request.StatusClosed), request.ErrBadTransition)
}

func TestRequest_BadPriorityRejected(t *testing.T) {
	t.Parallel()
	_, err := request.New("Anything", request.Priority("Critical"))
	assert.ErrorIs(t, err, request.ErrBadPriority)
}

func TestRequest_AssignMovesToInProgress(t *testing.T) {
	t.Parallel()
	r, err := request.New("Paint touch-up", request.PriorityMedium)
	require.NoError(t, err)

	tech := uuid.New()
	require.NoError(t, r.Assign(tech))
	assert.Equal(t, tech, r.Assignee())
	assert.Equal(t, request.StatusInProgress, r.Status())

	// Reassignment keeps the status where it is.
	other := uuid.New()
	require.NoError(t, r.Assign(other))
	assert.Equal(t, request.StatusInProgress, r.Status())

	require.NoError(t, r.Advance(request.StatusResolved))
	require.NoError(t, r.Advance(request.StatusClosed))
	assert.ErrorIs(t, r.Assign(tech), request.ErrBadTransition)
}

func TestRequest_Breached(t *testing.T) {
	t.Parallel()
	due := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	r, err := request.New("Water leak", request.PriorityUrgent, request.WithSLADue(due))
	require.NoError(t, err)

	assert.False(t, r.Breached(due.Add(-time.Hour)))
	assert.True(t, r.Breached(due.Add(time.Hour)))
}

func TestRequest_ResolutionFreezesBreachVerdict(t *testing.T) {
	t.Parallel()
	due := time.Now().Add(time.Hour)
	r, err := request.New("Tile crack", request.PriorityHigh, request.WithSLADue(due))
	require.NoError(t, err)
	require.NoError(t, r.Advance(request.StatusInProgress))
	require.NoError(t, r.Advance(request.StatusResolved))

	// Resolved inside the window; late clock reads do not flip it.
	assert.False(t, r.Breached(due.Add(48*time.Hour)))
}

func TestRequest_NoDueDateNeverBreaches(t *testing.T) {
	t.Parallel()
	r, err := request.New("General query", request.PriorityLow)
	require.NoError(t, err)
	assert.False(t, r.Breached(time.Now().Add(1000*time.Hour)))
}
