// Package term draws games on a terminal and runs a hot-seat command loop.
package term

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
)

// Renderer writes views to a terminal, colouring marks and the winning line
// when the output supports it.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer detects the colour profile of w unless opts override it.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

// Render draws the board, status line and history navigator.
func (r *Renderer) Render(v app.View) {
	var b strings.Builder
	for i, row := range v.Rows() {
		if i > 0 {
			b.WriteString("---+---+---\n")
		}
		for j, c := range row {
			if j > 0 {
				b.WriteString("|")
			}
			b.WriteString(" " + r.cell(c) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + r.out.String(v.Status).Bold().String() + "\n\n")

	for _, m := range v.Moves {
		if m.Current {
			fmt.Fprintf(&b, "  > %s\n", r.out.String(m.Text).Underline())
			continue
		}
		fmt.Fprintf(&b, "    %s\n", m.Text)
	}
	fmt.Fprintf(&b, "\n[o] %s\n", v.OrderToggle)
	_, _ = io.WriteString(r.out, b.String())
}

// Message prints a one-line notice such as a rejected command.
func (r *Renderer) Message(msg string) {
	_, _ = fmt.Fprintln(r.out, r.out.String(msg).Foreground(r.out.Color("1")))
}

// Printf writes plain text.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) cell(c app.CellView) string {
	if c.Mark == "" {
		// empty squares show the key that plays them
		return r.out.String(strconv.Itoa(c.Index + 1)).Faint().String()
	}
	s := r.out.String(c.Mark).Bold()
	switch c.Mark {
	case "X":
		s = s.Foreground(r.out.Color("4"))
	case "O":
		s = s.Foreground(r.out.Color("5"))
	}
	if c.Highlight {
		s = s.Reverse()
	}
	return s.String()
}
