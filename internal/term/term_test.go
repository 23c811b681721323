package term

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

func newSession(t *testing.T) (*Session, *app.Service, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	svc := app.NewServiceWithLogger(zerolog.Nop())
	s, err := NewSession(svc, NewRenderer(&out, termenv.WithProfile(termenv.Ascii)))
	require.NoError(t, err)
	return s, svc, &out
}

func TestRenderPlainBoard(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, termenv.WithProfile(termenv.Ascii))
	g := domain.New()
	g.Play(0)
	g.Play(4)
	r.Render(app.NewView(app.GameState{Game: g}))

	want := " X | 2 | 3 \n" +
		"---+---+---\n" +
		" 4 | O | 6 \n" +
		"---+---+---\n" +
		" 7 | 8 | 9 \n" +
		"\nNext player: X\n\n" +
		"    Go to game start\n" +
		"    Go to move #1 (1, 1)\n" +
		"  > You are at move #2 (2, 2)\n" +
		"\n[o] Sort Descending\n"
	assert.Equal(t, want, out.String())
}

func TestRenderHighlightsWinningLineWithColour(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, termenv.WithProfile(termenv.ANSI))
	g := domain.New()
	for _, c := range []int{0, 3, 1, 4, 2} {
		g.Play(c)
	}
	r.Render(app.NewView(app.GameState{Game: g}))
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Winner: X")
}

func TestExecCommands(t *testing.T) {
	s, svc, _ := newSession(t)

	require.NoError(t, s.Exec("5"))
	require.NoError(t, s.Exec("1"))
	gs, _ := svc.Get(s.ID())
	assert.Equal(t, domain.X, gs.Game.CurrentBoard()[4])
	assert.Equal(t, domain.O, gs.Game.CurrentBoard()[0])

	assert.ErrorIs(t, s.Exec("5"), domain.ErrOccupied)
	assert.ErrorIs(t, s.Exec("10"), domain.ErrOutOfBounds)
	assert.ErrorIs(t, s.Exec("j 9"), domain.ErrNoSuchMove)

	require.NoError(t, s.Exec("j 1"))
	gs, _ = svc.Get(s.ID())
	assert.Equal(t, 1, gs.Game.CurrentMove())

	require.NoError(t, s.Exec("o"))
	gs, _ = svc.Get(s.ID())
	assert.Equal(t, domain.Descending, gs.Game.Order())

	require.NoError(t, s.Exec("r"))
	gs, _ = svc.Get(s.ID())
	assert.Equal(t, 1, gs.Game.Len())

	require.NoError(t, s.Exec("   "))
	assert.ErrorIs(t, s.Exec("q"), ErrQuit)

	var u usageError
	assert.ErrorAs(t, s.Exec("jump"), &u)
	assert.ErrorAs(t, s.Exec("j x"), &u)
	assert.ErrorAs(t, s.Exec("dance"), &u)
}

func TestRunPlaysToWin(t *testing.T) {
	s, _, out := newSession(t)
	in := strings.NewReader("1\n4\n2\n5\n2\n3\n6\nq\n")
	require.NoError(t, s.Run(context.Background(), in))

	text := out.String()
	assert.Contains(t, text, "Cell is occupied")
	assert.Contains(t, text, "Winner: X")
	assert.Contains(t, text, "Game is over")
}

func TestRunStopsAtEOF(t *testing.T) {
	s, _, out := newSession(t)
	require.NoError(t, s.Run(context.Background(), strings.NewReader("bogus\n")))
	assert.Contains(t, out.String(), `unknown command "bogus" (h for help)`)
}

func TestRunHonoursCancelledContext(t *testing.T) {
	s, _, _ := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, strings.NewReader("1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReturnsOnCancelWhileWaitingForInput(t *testing.T) {
	s, _, _ := newSession(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, pr) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancel")
	}
}
