package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/menu-studio/internal/menu"
	"github.com/ziadkadry99/menu-studio/internal/mutator"
)

type memPersister struct {
	mu      sync.Mutex
	saved   []menu.AppState
	cleared int
	err     error
}

func (p *memPersister) Save(_ context.Context, st menu.AppState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, st)
	return nil
}

func (p *memPersister) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared++
	return p.err
}

func newTestSession(p Persister) *Session {
	m := mutator.New(&menu.SequenceIDs{Prefix: "t"})
	return New(menu.NewAppState(), m, p, zerolog.Nop())
}

func TestApplyPersistsEveryChange(t *testing.T) {
	p := &memPersister{}
	s := newTestSession(p)
	ctx := context.Background()

	_, err := s.Apply(ctx, func(st menu.AppState) menu.AppState {
		return s.Mutator().SetMenuField(st, mutator.FieldTitle, "Osteria")
	})
	require.NoError(t, err)
	_, err = s.Apply(ctx, s.Mutator().AddSection)
	require.NoError(t, err)

	require.Len(t, p.saved, 2)
	assert.Equal(t, "Osteria", p.saved[0].Menu.Title)
	assert.Equal(t, s.State(), p.saved[1])
}

func TestExecuteRejectsInvalidCommand(t *testing.T) {
	p := &memPersister{}
	s := newTestSession(p)
	before := s.State()

	_, err := s.Execute(context.Background(), mutator.Command{Op: mutator.OpDeleteSection, Section: mutator.Int(99)})
	require.ErrorIs(t, err, mutator.ErrInvalidCommand)
	assert.Equal(t, before, s.State())
	assert.Empty(t, p.saved)
}

func TestExecuteAppliesCommand(t *testing.T) {
	s := newTestSession(nil)
	st, err := s.Execute(context.Background(), mutator.Command{Op: mutator.OpSetMenuField, Field: "title", Value: "Da Mario"})
	require.NoError(t, err)
	assert.Equal(t, "Da Mario", st.Menu.Title)
	assert.Equal(t, st, s.State())
}

func TestApplyOnCurrentBase(t *testing.T) {
	p := &memPersister{}
	s := newTestSession(p)
	base := s.State()

	st, err := s.ApplyOn(context.Background(), base, s.Mutator().AddSection)
	require.NoError(t, err)
	assert.Len(t, st.Menu.Sections, len(base.Menu.Sections)+1)
	assert.Len(t, p.saved, 1)
}

func TestApplyOnStaleBaseIsRefused(t *testing.T) {
	p := &memPersister{}
	s := newTestSession(p)
	ctx := context.Background()
	base := s.State()

	_, err := s.Apply(ctx, func(st menu.AppState) menu.AppState {
		return s.Mutator().SetMenuField(st, mutator.FieldTitle, "Da Mario")
	})
	require.NoError(t, err)

	called := false
	st, err := s.ApplyOn(ctx, base, func(st menu.AppState) menu.AppState {
		called = true
		return st
	})
	require.ErrorIs(t, err, ErrStale)
	assert.False(t, called)
	assert.Equal(t, "Da Mario", st.Menu.Title)
	assert.Len(t, p.saved, 1)
}

func TestPersistFailureKeepsState(t *testing.T) {
	p := &memPersister{err: errors.New("disk full")}
	s := newTestSession(p)

	st, err := s.Apply(context.Background(), s.Mutator().AddSection)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, st, s.State())
}

func TestResetClearsStorage(t *testing.T) {
	p := &memPersister{}
	s := newTestSession(p)
	ctx := context.Background()
	_, err := s.Apply(ctx, func(st menu.AppState) menu.AppState {
		st.HasOnboarded = true
		return st
	})
	require.NoError(t, err)

	st, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.False(t, st.HasOnboarded)
	assert.Equal(t, 1, p.cleared)
}

func TestSubscribeReceivesLatest(t *testing.T) {
	s := newTestSession(nil)
	updates, cancel := s.Subscribe()
	defer cancel()
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Apply(ctx, func(st menu.AppState) menu.AppState {
			return s.Mutator().SetMenuField(st, mutator.FieldTitle, title)
		})
		require.NoError(t, err)
	}

	got := <-updates
	assert.Equal(t, "c", got.Menu.Title, "a slow reader sees the newest snapshot")
	select {
	case extra := <-updates:
		t.Fatalf("unexpected extra update %q", extra.Menu.Title)
	default:
	}
}

func TestCancelSubscription(t *testing.T) {
	s := newTestSession(nil)
	updates, cancel := s.Subscribe()
	cancel()
	cancel()

	_, ok := <-updates
	assert.False(t, ok)
	_, err := s.Apply(context.Background(), s.Mutator().AddSection)
	assert.NoError(t, err, "publishing after cancel does not panic")
}
