package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/arkiflo/arkiflo/modules/crm/domain/aggregates/lead"
	"github.com/arkiflo/arkiflo/pkg/composables"
	"github.com/arkiflo/arkiflo/pkg/configuration"
	"github.com/arkiflo/arkiflo/pkg/debounce"
	"github.com/arkiflo/arkiflo/pkg/eventbus"
)

type Suggestion struct {
	ID    uuid.UUID
	Name  string
	Stage lead.Stage
}

// LeadSuggestService keeps an in-memory index of lead names for typeahead.
// Writes arrive in bursts (imports, funnel sweeps), so rebuilds are debounced
// behind a quiescence window instead of re-reading the table per event. A
// rebuild that loses the generation race leaves the newer snapshot in place.
type LeadSuggestService struct {
	repo       lead.Repository
	pool       *pgxpool.Pool
	log        *logrus.Logger
	dispatcher *debounce.Dispatcher

	mu      sync.RWMutex
	entries []Suggestion
}

func NewLeadSuggestService(
	repo lead.Repository,
	pool *pgxpool.Pool,
	bus eventbus.EventBus,
	log *logrus.Logger,
) *LeadSuggestService {
	s := &LeadSuggestService{
		repo: repo,
		pool: pool,
		log:  log,
	}
	s.dispatcher = debounce.NewDispatcher(configuration.Use().SearchDebounce, s.rebuild)
	bus.Subscribe(s.onLeadCreated)
	bus.Subscribe(s.onLeadUpdated)
	bus.Subscribe(s.onLeadStageChanged)
	bus.Subscribe(s.onLeadDeleted)
	return s
}

func (s *LeadSuggestService) onLeadCreated(event *lead.CreatedEvent)           { s.invalidate() }
func (s *LeadSuggestService) onLeadUpdated(event *lead.UpdatedEvent)           { s.invalidate() }
func (s *LeadSuggestService) onLeadStageChanged(event *lead.StageChangedEvent) { s.invalidate() }
func (s *LeadSuggestService) onLeadDeleted(event *lead.DeletedEvent)           { s.invalidate() }

func (s *LeadSuggestService) invalidate() {
	s.dispatcher.Submit("")
}

// Prime loads the index synchronously, for startup.
func (s *LeadSuggestService) Prime(ctx context.Context) error {
	leads, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = leads
	s.mu.Unlock()
	return nil
}

func (s *LeadSuggestService) rebuild(ctx context.Context, generation uint64, _ string) {
	leads, err := s.load(ctx)
	if err != nil {
		s.log.WithError(err).Error("rebuilding lead suggest index")
		return
	}
	if !s.dispatcher.Latest(generation) {
		return
	}
	s.mu.Lock()
	s.entries = leads
	s.mu.Unlock()
}

func (s *LeadSuggestService) load(ctx context.Context) ([]Suggestion, error) {
	if s.pool != nil {
		ctx = composables.WithPool(ctx, s.pool)
	}
	var out []Suggestion
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		leads, err := s.repo.GetAll(txCtx)
		if err != nil {
			return err
		}
		out = make([]Suggestion, 0, len(leads))
		for _, l := range leads {
			out = append(out, Suggestion{ID: l.ID(), Name: l.Name(), Stage: l.Stage()})
		}
		return nil
	})
	return out, err
}

// Suggest returns up to limit leads fuzzy-matched against query, best match
// first. An empty query returns nothing.
func (s *LeadSuggestService) Suggest(query string, limit int) []Suggestion {
	if query == "" || limit <= 0 {
		return nil
	}
	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	out := make([]Suggestion, 0, limit)
	for _, r := range ranks {
		out = append(out, entries[r.OriginalIndex])
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *LeadSuggestService) Close() {
	s.dispatcher.Close()
}
