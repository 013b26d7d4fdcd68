package equity

import (
	"errors"

	"github.com/lox/pokermath/poker"
)

var (
	// ErrInvalidHoleCards is returned when a hole card group is not exactly two cards.
	ErrInvalidHoleCards = errors.New("hole cards must be exactly 2 cards")
	// ErrInvalidBoard is returned when the board is not 0, 3, 4 or 5 cards.
	ErrInvalidBoard = errors.New("board must have 0, 3, 4 or 5 cards")
	// ErrDuplicateCard is returned when a card appears in more than one place.
	ErrDuplicateCard = poker.ErrDuplicateCard
	// ErrTooFewPlayers is returned when fewer than two hands are given.
	ErrTooFewPlayers = errors.New("at least 2 hands are required")
	// ErrNotEnoughCards is returned when the deck cannot complete the board.
	ErrNotEnoughCards = errors.New("not enough cards left to complete the board")
)
