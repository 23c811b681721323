package domain

import (
	"errors"
	"fmt"
)

// NoMove marks the starting entry, which was not produced by a move.
const NoMove = -1

// Entry is a board snapshot plus the cell played to reach it.
type Entry struct {
	Board    Board
	LastMove int
}

// Order controls how move labels are listed.
type Order uint8

const (
	Ascending Order = iota
	Descending
)

// ToggleText is the label of the control that flips the order.
func (o Order) ToggleText() string {
	if o == Ascending {
		return "Sort Descending"
	}
	return "Sort Ascending"
}

// StatusKind distinguishes the three game statuses.
type StatusKind uint8

const (
	StatusNext StatusKind = iota
	StatusWinner
	StatusDraw
)

// Status describes the position at the current move.
type Status struct {
	Kind StatusKind
	Mark Cell // side to move for StatusNext, winner for StatusWinner
}

func (s Status) String() string {
	switch s.Kind {
	case StatusWinner:
		return "Winner: " + s.Mark.String()
	case StatusDraw:
		return "It's a draw!"
	default:
		return "Next player: " + s.Mark.String()
	}
}

// Over reports whether the position is terminal.
func (s Status) Over() bool { return s.Kind != StatusNext }

// MoveLabel is one row of the history navigator.
type MoveLabel struct {
	Move    int
	Current bool
	Row     int // 1-based, 0 for the starting entry
	Col     int // 1-based, 0 for the starting entry
	Text    string
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
	ErrNoSuchMove  = errors.New("no such move")
)

// Game holds the move history of a Tic-Tac-Toe match and the position
// currently shown. Copies of a Game are independent: no method mutates an
// entry or a backing array that another copy may share.
type Game struct {
	history []Entry
	current int
	order   Order
}

// New returns a game at the empty starting board with X to move.
func New() Game {
	return Game{history: []Entry{{LastMove: NoMove}}}
}

func (g *Game) ensureStart() {
	if len(g.history) == 0 {
		g.history = []Entry{{LastMove: NoMove}}
		g.current = 0
	}
}

// CurrentBoard returns the board at the current move.
func (g *Game) CurrentBoard() Board {
	g.ensureStart()
	return g.history[g.current].Board
}

// CurrentMove returns the index of the displayed entry.
func (g *Game) CurrentMove() int { return g.current }

// Order returns the display order of move labels.
func (g *Game) Order() Order { return g.order }

// History returns a copy of all recorded entries.
func (g *Game) History() []Entry {
	g.ensureStart()
	return append([]Entry(nil), g.history...)
}

// Len returns the number of recorded entries.
func (g *Game) Len() int {
	g.ensureStart()
	return len(g.history)
}

// Turn returns the side to move at the current entry.
func (g *Game) Turn() Cell {
	if g.current%2 == 0 {
		return X
	}
	return O
}

// Check reports why playing cell would be rejected, or nil.
func (g *Game) Check(cell int) error {
	if cell < 0 || cell > 8 {
		return ErrOutOfBounds
	}
	b := g.CurrentBoard()
	if Evaluate(b).Won() {
		return ErrGameOver
	}
	if b[cell] != Empty {
		return ErrOccupied
	}
	return nil
}

// Play places the current side's mark at cell. Entries after the current
// move are discarded before the new entry is appended. A rejected play
// leaves the game untouched and returns false.
func (g *Game) Play(cell int) bool {
	if g.Check(cell) != nil {
		return false
	}
	next := g.CurrentBoard()
	next[cell] = g.Turn()

	h := make([]Entry, g.current+2)
	copy(h, g.history[:g.current+1])
	h[g.current+1] = Entry{Board: next, LastMove: cell}
	g.history = h
	g.current++
	return true
}

// CheckJump reports why jumping to move would be rejected, or nil.
func (g *Game) CheckJump(move int) error {
	if move < 0 || move >= g.Len() {
		return fmt.Errorf("%w: %d", ErrNoSuchMove, move)
	}
	return nil
}

// JumpTo makes move the current entry without altering history.
func (g *Game) JumpTo(move int) bool {
	if g.CheckJump(move) != nil {
		return false
	}
	g.current = move
	return true
}

// ToggleOrder flips the display order of move labels.
func (g *Game) ToggleOrder() {
	if g.order == Ascending {
		g.order = Descending
	} else {
		g.order = Ascending
	}
}

// Status is recomputed from the current board on every call.
func (g *Game) Status() Status {
	b := g.CurrentBoard()
	if r := Evaluate(b); r.Won() {
		return Status{Kind: StatusWinner, Mark: r.Winner}
	}
	if b.Full() {
		return Status{Kind: StatusDraw}
	}
	return Status{Kind: StatusNext, Mark: g.Turn()}
}

// WinningLine returns the indices to highlight, or nil.
func (g *Game) WinningLine() []int {
	return Evaluate(g.CurrentBoard()).Line
}

// MoveLabels lists every entry in display order. The current entry is
// flagged and must not be offered as a jump target.
func (g *Game) MoveLabels() []MoveLabel {
	g.ensureStart()
	out := make([]MoveLabel, len(g.history))
	for i, e := range g.history {
		l := MoveLabel{Move: i, Current: i == g.current}
		if e.LastMove != NoMove {
			r, c := RowCol(e.LastMove)
			l.Row, l.Col = r+1, c+1
		}
		l.Text = labelText(l)
		out[i] = l
	}
	if g.order == Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func labelText(l MoveLabel) string {
	switch {
	case l.Move == 0 && l.Current:
		return "Game start"
	case l.Move == 0:
		return "Go to game start"
	case l.Current:
		return fmt.Sprintf("You are at move #%d (%d, %d)", l.Move, l.Row, l.Col)
	default:
		return fmt.Sprintf("Go to move #%d (%d, %d)", l.Move, l.Row, l.Col)
	}
}
