package app

import (
	"errors"

	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

// Reason turns a rejected command into a short message for players.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Game not found"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrNoSuchMove):
		return "No such move"
	default:
		return "Invalid move"
	}
}
