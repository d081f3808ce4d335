package project_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/project/domain/aggregates/project"
)

func TestStage_PipelineMovesForwardOnly(t *testing.T) {
	t.Parallel()
	p := project.New("Skyline Penthouse")
	require.Equal(t, project.StageDesign, p.Stage())

	require.NoError(t, p.Advance(project.StageProduction))
	require.NoError(t, p.Advance(project.StageFitout))
	require.NoError(t, p.Advance(project.StageHandover))

	assert.ErrorIs(t, p.Advance(project.StageDesign), project.ErrBadTransition)
}

func TestStage_SkippingIsRejected(t *testing.T) {
	t.Parallel()
	p := project.New("Skyline Penthouse")
	assert.ErrorIs(t, p.Advance(project.StageFitout), project.ErrBadTransition)
	assert.ErrorIs(t, p.Advance(project.StageHandover), project.ErrBadTransition)
	assert.Equal(t, project.StageDesign, p.Stage())
}

func TestProject_Overdue(t *testing.T) {
	t.Parallel()
	due := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	p := project.New("Skyline Penthouse", project.WithDueDate(due))

	assert.False(t, p.Overdue(due.AddDate(0, 0, -1)))
	assert.True(t, p.Overdue(due.AddDate(0, 0, 1)))

	handed := project.New("Skyline Penthouse",
		project.WithStage(project.StageHandover),
		project.WithDueDate(due),
	)
	assert.False(t, handed.Overdue(due.AddDate(0, 1, 0)))

	// No due date set means never overdue.
	assert.False(t, project.New("Open Ended").Overdue(time.Now()))
}
