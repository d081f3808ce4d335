package lead_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
)

func TestStage_FunnelMovesForwardOneStepAtATime(t *testing.T) {
	t.Parallel()
	l := lead.New("Greenfield Villa", lead.WithContact("+91 98200 00000"))
	require.Equal(t, lead.StageNew, l.Stage())

	require.NoError(t, l.Advance(lead.StageContacted))
	require.NoError(t, l.Advance(lead.StageQualified))
	require.NoError(t, l.Advance(lead.StageProposal))
	require.NoError(t, l.Advance(lead.StageWon))

	assert.Equal(t, lead.StageWon, l.Stage())
}

func TestStage_SkippingStagesIsRejected(t *testing.T) {
	t.Parallel()
	l := lead.New("Greenfield Villa")
	assert.ErrorIs(t, l.Advance(lead.StageProposal), lead.ErrBadTransition)
	assert.Equal(t, lead.StageNew, l.Stage())
}

func TestStage_LostFromAnyOpenStage(t *testing.T) {
	t.Parallel()
	l := lead.New("Greenfield Villa")
	require.NoError(t, l.Advance(lead.StageContacted))
	require.NoError(t, l.Advance(lead.StageLost))
	assert.Equal(t, lead.StageLost, l.Stage())
}

func TestStage_TerminalStagesAreFinal(t *testing.T) {
	t.Parallel()
	l := lead.New("Greenfield Villa", lead.WithStage(lead.StageWon))
	assert.ErrorIs(t, l.Advance(lead.StageLost), lead.ErrBadTransition)

	l = lead.New("Greenfield Villa", lead.WithStage(lead.StageLost))
	assert.ErrorIs(t, l.Advance(lead.StageContacted), lead.ErrBadTransition)
}

func TestLead_SettersTouchUpdatedAt(t *testing.T) {
	t.Parallel()
	l := lead.New("Greenfield Villa")
	before := l.UpdatedAt()
	l.SetEstimate(decimal.RequireFromString("450000.50"))
	assert.True(t, !l.UpdatedAt().Before(before))
	assert.Equal(t, "450000.5", l.Estimate().String())
}
