// Package session owns the live document and fans out its changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
)

// ErrStale is returned by ApplyOn when the document changed after the
// caller read its base.
var ErrStale = errors.New("document changed since it was read")

// Persister stores the document. *store.StateStore implements it.
type Persister interface {
	Save(ctx context.Context, st menu.AppState) error
	Clear(ctx context.Context) error
}

// Session holds the single AppState. Every change is serialized, written
// through to the persister and announced to subscribers.
type Session struct {
	mu      sync.Mutex
	state   menu.AppState
	mut     *mutator.Mutator
	persist Persister
	logger  zerolog.Logger

	subsMu sync.Mutex
	subs   map[int]chan menu.AppState
	next   int
}

// New starts a session from initial. A nil persister keeps the document
// in memory only.
func New(initial menu.AppState, mut *mutator.Mutator, persist Persister, logger zerolog.Logger) *Session {
	return &Session{
		state:   initial,
		mut:     mut,
		persist: persist,
		logger:  logger,
		subs:    map[int]chan menu.AppState{},
	}
}

// State returns the current snapshot.
func (s *Session) State() menu.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mutator returns the mutator edits should go through.
func (s *Session) Mutator() *mutator.Mutator { return s.mut }

// Apply replaces the state with fn's result and persists it. When saving
// fails the new state is kept in memory and the error is returned.
func (s *Session) Apply(ctx context.Context, fn func(menu.AppState) menu.AppState) (menu.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, fn(s.state))
}

// ApplyOn is Apply for callers that computed a change from an earlier
// snapshot. It refuses with ErrStale unless the current state still
// equals base.
func (s *Session) ApplyOn(ctx context.Context, base menu.AppState, fn func(menu.AppState) menu.AppState) (menu.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !reflect.DeepEqual(s.state, base) {
		return s.state, ErrStale
	}
	return s.commit(ctx, fn(s.state))
}

// Execute validates cmd against the current state and applies it.
func (s *Session) Execute(ctx context.Context, cmd mutator.Command) (menu.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.mut.Execute(s.state, cmd)
	if err != nil {
		return s.state, err
	}
	return s.commit(ctx, next)
}

// Reset discards the document and the stored copy, returning to the
// first-launch state.
func (s *Session) Reset(ctx context.Context) (menu.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.mut.Reset()
	s.publish(s.state)
	if s.persist != nil {
		if err := s.persist.Clear(ctx); err != nil {
			return s.state, fmt.Errorf("clearing stored state: %w", err)
		}
	}
	s.logger.Info().Msg("document reset")
	return s.state, nil
}

func (s *Session) commit(ctx context.Context, next menu.AppState) (menu.AppState, error) {
	s.state = next
	s.publish(next)
	if s.persist == nil {
		return next, nil
	}
	if err := s.persist.Save(ctx, next); err != nil {
		s.logger.Error().Err(err).Msg("persisting state")
		return next, fmt.Errorf("persisting state: %w", err)
	}
	return next, nil
}

// Subscribe returns a channel that receives the newest snapshot after
// each change. A slow reader only misses intermediate snapshots. Call
// cancel to stop receiving.
func (s *Session) Subscribe() (updates <-chan menu.AppState, cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.next
	s.next++
	ch := make(chan menu.AppState, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Session) publish(st menu.AppState) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- st:
			continue
		default:
		}
		// Replace the stale snapshot nobody has read yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}
