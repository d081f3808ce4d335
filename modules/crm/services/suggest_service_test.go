package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiflo/arkiflo/modules/core/domain/value_objects/role"
	"github.com/arkiflo/arkiflo/modules/core/permissions"
	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/modules/crm/services"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestLeadSuggestService_FuzzyMatchesByName(t *testing.T) {
	t.Parallel()
	repo := newFakeLeadRepo()
	require.NoError(t, repo.Create(context.Background(), lead.New("Greenfield Villa")))
	require.NoError(t, repo.Create(context.Background(), lead.New("Harbor Point Office")))
	require.NoError(t, repo.Create(context.Background(), lead.New("Green Terrace Cafe")))

	svc := services.NewLeadSuggestService(repo, nil, quietBus(), quietLogger())
	defer svc.Close()
	require.NoError(t, svc.Prime(context.Background()))

	matches := svc.Suggest("green", 10)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"Greenfield Villa", "Green Terrace Cafe"}, names)

	assert.Empty(t, svc.Suggest("", 10))
	assert.Len(t, svc.Suggest("green", 1), 1)
}

func TestLeadSuggestService_RebuildsAfterWriteBurst(t *testing.T) {
	t.Parallel()
	repo := newFakeLeadRepo()
	bus := quietBus()
	svc := services.NewLeadSuggestService(repo, nil, bus, quietLogger())
	defer svc.Close()

	ctx := actorCtx(role.Admin, permissions.LeadCreate)
	leadSvc := services.NewLeadService(repo, bus)
	for _, name := range []string{"Alpha Loft", "Beta Studio", "Gamma Duplex"} {
		_, err := leadSvc.Create(ctx, lead.New(name))
		require.NoError(t, err)
	}

	// The index trails writes by the quiescence window.
	assert.Eventually(t, func() bool {
		return len(svc.Suggest("a", 10)) > 0
	}, 3*time.Second, 20*time.Millisecond)
}
