package app

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

func newTestService() *Service { return NewServiceWithLogger(zerolog.Nop()) }

func TestCreateAndGet(t *testing.T) {
	s := newTestService()
	gs, err := s.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame error: %v", err)
	}
	if gs.ID == "" {
		t.Fatalf("expected non-empty game ID")
	}
	if gs.Game.Turn() != domain.X {
		t.Fatalf("expected initial turn X")
	}
	if gs.Created.IsZero() || gs.Updated.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
	got, ok := s.Get(gs.ID)
	if !ok || got.ID != gs.ID {
		t.Fatalf("Get should find created game")
	}
	assert.Equal(t, 1, s.Len())
}

func TestUnknownGame(t *testing.T) {
	s := newTestService()
	_, ok := s.Get("missing")
	assert.False(t, ok)

	_, err := s.Play("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.JumpTo("missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleOrder("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Reset("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Subscribe(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestPlayAppliesAndUpdatesTimestamp(t *testing.T) {
	s := newTestService()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	gs, _ := s.CreateGame()

	clock = clock.Add(time.Minute)
	st, err := s.Play(gs.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.X, st.Game.CurrentBoard()[4])
	assert.Equal(t, domain.O, st.Game.Turn())
	assert.Equal(t, 1, st.Game.CurrentMove())
	assert.Equal(t, clock, st.Updated)
	assert.True(t, st.Updated.After(st.Created))
}

func TestPlayRejectionsLeaveStateUnchanged(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()
	_, err := s.Play(gs.ID, 0)
	require.NoError(t, err)

	st, err := s.Play(gs.ID, 0)
	assert.ErrorIs(t, err, domain.ErrOccupied)
	require.NotNil(t, st)
	assert.Equal(t, 2, st.Game.Len())

	_, err = s.Play(gs.ID, 9)
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	for _, c := range []int{3, 1, 4, 2} {
		_, err = s.Play(gs.ID, c)
		require.NoError(t, err)
	}
	before, _ := s.Get(gs.ID)
	_, err = s.Play(gs.ID, 8)
	assert.ErrorIs(t, err, domain.ErrGameOver)
	after, _ := s.Get(gs.ID)
	assert.Equal(t, before.Game.History(), after.Game.History())
	assert.Equal(t, before.Updated, after.Updated)
}

func TestJumpAndBranch(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()
	for _, c := range []int{0, 4, 1} {
		_, err := s.Play(gs.ID, c)
		require.NoError(t, err)
	}
	st, err := s.JumpTo(gs.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Game.CurrentMove())
	assert.Equal(t, 4, st.Game.Len())

	_, err = s.JumpTo(gs.ID, 7)
	assert.True(t, errors.Is(err, domain.ErrNoSuchMove))

	st, err = s.Play(gs.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Game.Len())
	assert.Equal(t, domain.O, st.Game.CurrentBoard()[8])
}

func TestToggleOrderAndReset(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()
	_, _ = s.Play(gs.ID, 0)

	st, err := s.ToggleOrder(gs.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Descending, st.Game.Order())

	st, err = s.Reset(gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Game.Len())
	assert.Equal(t, domain.Ascending, st.Game.Order())
}

func TestReturnedStateIsACopy(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()
	st, _ := s.Play(gs.ID, 0)
	st.Game.Play(1)

	latest, _ := s.Get(gs.ID)
	assert.Equal(t, 2, latest.Game.Len())
}

func TestSubscribeAndBroadcast(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	ch, unsub, err := s.Subscribe(ctx, gs.ID)
	require.NoError(t, err)
	defer unsub()

	if _, err := s.Play(gs.ID, 0); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	// rejected commands are not broadcast
	_, _ = s.Play(gs.ID, 0)
	if _, err := s.ToggleOrder(gs.ID); err != nil {
		t.Fatalf("order failed: %v", err)
	}

	for _, want := range []int{2, 2} {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "channel closed unexpectedly")
			assert.Equal(t, want, st.Game.Len())
		case <-ctx.Done():
			t.Fatalf("timed out waiting for broadcast")
		}
	}
	select {
	case st := <-ch:
		t.Fatalf("unexpected extra broadcast: %+v", st)
	default:
	}
}

func TestDropSlowSubscriber(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()

	// Slow subscriber: never read
	ctxSlow, cancelSlow := context.WithCancel(context.Background())
	defer cancelSlow()
	slowCh, _, err := s.Subscribe(ctxSlow, gs.ID)
	require.NoError(t, err)

	ctxFast, cancelFast := context.WithTimeout(context.Background(), time.Second*2)
	defer cancelFast()
	fastCh, unsubFast, err := s.Subscribe(ctxFast, gs.ID)
	require.NoError(t, err)
	defer unsubFast()

	moves := []int{0, 4, 1, 3, 8, 5}
	got := 0
	for _, c := range moves {
		_, err := s.Play(gs.ID, c)
		require.NoError(t, err)
		select {
		case <-fastCh:
			got++
		case <-ctxFast.Done():
			t.Fatalf("fast subscriber did not receive updates in time")
		}
	}
	assert.Equal(t, len(moves), got)

	// Slow subscriber was dropped once its buffer filled; its channel drains then closes.
	n := 0
	for range slowCh {
		n++
	}
	assert.Equal(t, subscriberBuffer, n)
}

func TestUnsubscribeOnContextCancel(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := s.Subscribe(ctx, gs.ID)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}

func TestSubscriptionWatchersExitWithoutContextEnd(t *testing.T) {
	s := newTestService()
	gs, _ := s.CreateGame()
	base := runtime.NumGoroutine()

	// Half unsubscribe explicitly, half are dropped as slow subscribers.
	const n = 20
	for i := 0; i < n/2; i++ {
		_, unsub, err := s.Subscribe(context.Background(), gs.ID)
		require.NoError(t, err)
		unsub()
		unsub()
	}
	for i := 0; i < n/2; i++ {
		_, _, err := s.Subscribe(context.Background(), gs.ID)
		require.NoError(t, err)
	}
	for i := 0; i <= subscriberBuffer; i++ {
		_, err := s.ToggleOrder(gs.ID)
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= base
	}, 2*time.Second, 10*time.Millisecond, "subscription watchers still running")
}
