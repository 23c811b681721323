package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
)

const help = `Commands:
  1-9      play that square (numbered left to right, top to bottom)
  j N      jump to move N (0 is the game start)
  o        toggle history order
  r        restart
  h        show this help
  q        quit
`

// ErrQuit is returned by Exec when the player asks to quit.
var ErrQuit = errors.New("quit")

// usageError is a command line that could not be parsed.
type usageError string

func (e usageError) Error() string { return string(e) }

// Session is one terminal game backed by the service.
type Session struct {
	svc *app.Service
	r   *Renderer
	id  string
}

// NewSession creates a game on svc and returns a session drawing through r.
func NewSession(svc *app.Service, r *Renderer) (*Session, error) {
	gs, err := svc.CreateGame()
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &Session{svc: svc, r: r, id: gs.ID}, nil
}

// ID returns the game ID of the session.
func (s *Session) ID() string { return s.id }

// Run reads commands from in until EOF, quit, or ctx ends, redrawing the
// game after each command.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.r.Printf("%s\n", help)
	if err := s.draw(); err != nil {
		return err
	}
	lines, scanErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.r.Printf("> ")
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line = <-lines:
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.Exec(line)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, app.ErrNotFound):
			return err
		case err != nil:
			var u usageError
			if errors.As(err, &u) {
				s.r.Message(u.Error() + " (h for help)")
			} else {
				s.r.Message(app.Reason(err))
			}
		}
		if err := s.draw(); err != nil {
			return err
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The error channel yields the scanner error, nil at EOF. The
// goroutine stays parked in Read until in returns.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// Exec applies one command line to the game.
func (s *Session) Exec(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}
	var err error
	switch cmd := fields[0]; cmd {
	case "q", "quit", "exit":
		return ErrQuit
	case "h", "help", "?":
		s.r.Printf("%s", help)
	case "o", "order":
		_, err = s.svc.ToggleOrder(s.id)
	case "r", "restart", "reset":
		_, err = s.svc.Reset(s.id)
	case "j", "jump":
		if len(fields) != 2 {
			return usageError("jump needs a move number")
		}
		move, perr := strconv.Atoi(fields[1])
		if perr != nil {
			return usageError(fmt.Sprintf("bad move number %q", fields[1]))
		}
		_, err = s.svc.JumpTo(s.id, move)
	default:
		n, perr := strconv.Atoi(cmd)
		if perr != nil {
			return usageError(fmt.Sprintf("unknown command %q", cmd))
		}
		_, err = s.svc.Play(s.id, n-1)
	}
	return err
}

func (s *Session) draw() error {
	gs, ok := s.svc.Get(s.id)
	if !ok {
		return app.ErrNotFound
	}
	s.r.Render(app.NewView(*gs))
	return nil
}
