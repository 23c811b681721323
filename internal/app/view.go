package app

import "github.com/jaminalder/tic-tac-toe-history/internal/domain"

// CellView is one board square as the presentation layer draws it.
type CellView struct {
	Index     int    `json:"index"`
	Mark      string `json:"mark"`
	Highlight bool   `json:"highlight,omitempty"`
}

// MoveView is one row of the history navigator.
type MoveView struct {
	Move    int    `json:"move"`
	Current bool   `json:"current"`
	Text    string `json:"text"`
}

// View is everything needed to draw a game. It is derived from a GameState
// on demand and never stored.
type View struct {
	ID          string     `json:"id"`
	Cells       []CellView `json:"cells"`
	Status      string     `json:"status"`
	Over        bool       `json:"over"`
	Winner      string     `json:"winner,omitempty"`
	WinningLine []int      `json:"winningLine,omitempty"`
	CurrentMove int        `json:"currentMove"`
	Moves       []MoveView `json:"moves"`
	Descending  bool       `json:"descending"`
	OrderToggle string     `json:"orderToggle"`
}

// NewView derives the drawable view of gs.
func NewView(gs GameState) View {
	g := gs.Game
	board := g.CurrentBoard()
	status := g.Status()
	line := g.WinningLine()

	v := View{
		ID:          gs.ID,
		Cells:       make([]CellView, len(board)),
		Status:      status.String(),
		Over:        status.Over(),
		WinningLine: line,
		CurrentMove: g.CurrentMove(),
		Descending:  g.Order() == domain.Descending,
		OrderToggle: g.Order().ToggleText(),
	}
	if status.Kind == domain.StatusWinner {
		v.Winner = status.Mark.String()
	}
	for i, c := range board {
		v.Cells[i] = CellView{Index: i, Mark: c.String()}
	}
	for _, i := range line {
		v.Cells[i].Highlight = true
	}
	for _, l := range g.MoveLabels() {
		v.Moves = append(v.Moves, MoveView{Move: l.Move, Current: l.Current, Text: l.Text})
	}
	return v
}

// Rows groups the cells into the three board rows.
func (v View) Rows() [][]CellView {
	rows := make([][]CellView, 0, 3)
	for r := 0; r+3 <= len(v.Cells); r += 3 {
		rows = append(rows, v.Cells[r:r+3])
	}
	return rows
}
