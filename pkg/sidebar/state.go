// Package sidebar holds the two pieces of durable sidebar preference state
// (whole-sidebar collapse, per-parent submenu expansion) and the route
// matching rules the client uses for active-entry highlighting.
package sidebar

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arkiflo/arkiflo/pkg/constants"
)

// State is rehydrated on every sidebar render. Absent or unparseable stored
// values fall back to the zero value: expanded sidebar, no open submenus.
type State struct {
	Collapsed     bool            `json:"collapsed"`
	ExpandedMenus map[string]bool `json:"expandedMenus"`
}

func DefaultState() State {
	return State{
		Collapsed:     false,
		ExpandedMenus: map[string]bool{},
	}
}

// ExpandFor opens the submenu of every parent whose href prefixes the current
// path. One-way: navigating away never collapses a submenu.
func (s State) ExpandFor(parents []string, currentPath string) State {
	out := State{
		Collapsed:     s.Collapsed,
		ExpandedMenus: make(map[string]bool, len(s.ExpandedMenus)),
	}
	for k, v := range s.ExpandedMenus {
		out.ExpandedMenus[k] = v
	}
	for _, parent := range parents {
		if currentPath == parent || hasPathPrefix(currentPath, parent) {
			out.ExpandedMenus[parent] = true
		}
	}
	return out
}

// Equal reports whether two states would render identically. A key flipping
// from an explicit false to true is a change even though the map size is not.
func (s State) Equal(o State) bool {
	return s.Collapsed == o.Collapsed && maps.Equal(s.ExpandedMenus, o.ExpandedMenus)
}

// Store persists sidebar state per user. Get never fails on bad payloads;
// it returns the documented default instead.
type Store interface {
	Get(ctx context.Context, userKey string) State
	Set(ctx context.Context, userKey string, state State) error
	Clear(ctx context.Context, userKey string) error
}

func storageKey(userKey string) string {
	return fmt.Sprintf("%s:%s", constants.SidebarCollapsedKey, userKey)
}

// ---- In-memory store ----

// NewMemoryStore keeps state for the process lifetime. Used when no redis
// URL is configured and in tests.
func NewMemoryStore() Store {
	return &memoryStore{values: map[string][]byte{}}
}

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func (s *memoryStore) Get(_ context.Context, userKey string) State {
	s.mu.RLock()
	raw, ok := s.values[storageKey(userKey)]
	s.mu.RUnlock()
	if !ok {
		return DefaultState()
	}
	return decode(raw)
}

func (s *memoryStore) Set(_ context.Context, userKey string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[storageKey(userKey)] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(_ context.Context, userKey string) error {
	s.mu.Lock()
	delete(s.values, storageKey(userKey))
	s.mu.Unlock()
	return nil
}

// ---- Redis-backed store ----

// NewRedisStore survives restarts. TTL keeps abandoned accounts from
// accumulating keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) Get(ctx context.Context, userKey string) State {
	raw, err := s.client.Get(ctx, storageKey(userKey)).Bytes()
	if err != nil {
		return DefaultState()
	}
	return decode(raw)
}

func (s *redisStore) Set(ctx context.Context, userKey string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, storageKey(userKey), raw, s.ttl).Err()
}

func (s *redisStore) Clear(ctx context.Context, userKey string) error {
	return s.client.Del(ctx, storageKey(userKey)).Err()
}

func decode(raw []byte) State {
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return DefaultState()
	}
	if state.ExpandedMenus == nil {
		state.ExpandedMenus = map[string]bool{}
	}
	return state
}
