package domain

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the mark drawn for the cell, or "" when empty.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major (index = row*3 + col).
type Board [9]Cell

// Line is one of the eight winning triples.
type Line [3]int

// Lines lists rows, then columns, then diagonals. Evaluate reports the first
// complete line in this order.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Result is the outcome of evaluating a board.
type Result struct {
	Winner Cell
	Line   []int
}

// Won reports whether a line is complete.
func (r Result) Won() bool { return r.Winner != Empty }

// Evaluate returns the first completed line and its mark, or an empty Result.
func Evaluate(b Board) Result {
	for _, ln := range Lines {
		v := b[ln[0]]
		if v != Empty && b[ln[1]] == v && b[ln[2]] == v {
			return Result{Winner: v, Line: []int{ln[0], ln[1], ln[2]}}
		}
	}
	return Result{}
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// IsDraw holds for a full board without a winner.
func IsDraw(b Board) bool {
	return b.Full() && !Evaluate(b).Won()
}

// RowCol converts a cell index to a zero-based row and column.
func RowCol(idx int) (row, col int) {
	return idx / 3, idx % 3
}
