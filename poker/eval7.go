package poker

import (
	"errors"
	"fmt"
)

// ErrCardCount is returned when a hand does not hold 5, 6 or 7 cards.
var ErrCardCount = errors.New("hand must contain 5 to 7 cards")

// ErrDuplicateCard is returned when the same card appears twice in a hand.
var ErrDuplicateCard = errors.New("duplicate card")

// sevenCardCombos lists the 21 ways to choose 5 positions out of 7.
var sevenCardCombos = subsets(7)

// sixCardCombos lists the 6 ways to choose 5 positions out of 6.
var sixCardCombos = subsets(6)

func subsets(n int) [][5]uint8 {
	var out [][5]uint8
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						out = append(out, [5]uint8{uint8(a), uint8(b), uint8(c), uint8(d), uint8(e)})
					}
				}
			}
		}
	}
	return out
}

// Evaluate7Brute ranks the best five card hand among seven by evaluating all
// 21 five card subsets.
func Evaluate7Brute(cards [7]Card) HandRank {
	best := WorstRank
	for _, c := range sevenCardCombos {
		r := Evaluate5(cards[c[0]], cards[c[1]], cards[c[2]], cards[c[3]], cards[c[4]])
		if r < best {
			best = r
		}
	}
	return best
}

// Evaluate6 ranks the best five card hand among six.
func Evaluate6(cards [6]Card) HandRank {
	best := WorstRank
	for _, c := range sixCardCombos {
		r := Evaluate5(cards[c[0]], cards[c[1]], cards[c[2]], cards[c[3]], cards[c[4]])
		if r < best {
			best = r
		}
	}
	return best
}

// Evaluate7 ranks seven cards using the default lookup table when one is
// available and brute force otherwise.
func Evaluate7(cards [7]Card) HandRank {
	return defaultEvaluator().Evaluate7(cards)
}

// Evaluate ranks a hand of 5, 6 or 7 distinct cards.
func Evaluate(cards []Card) (HandRank, error) {
	if err := validateHand(cards); err != nil {
		return 0, err
	}
	switch len(cards) {
	case 5:
		return Evaluate5(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
	case 6:
		return Evaluate6([6]Card(cards)), nil
	default:
		return Evaluate7([7]Card(cards)), nil
	}
}

// EvaluateString parses and ranks a hand such as "As Ks Qs Js Ts".
func EvaluateString(s string) (HandRank, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return 0, err
	}
	return Evaluate(cards)
}

// CompareCards ranks two hands and returns 1 if a wins, -1 if b wins, 0 for tie.
func CompareCards(a, b []Card) (int, error) {
	ra, err := Evaluate(a)
	if err != nil {
		return 0, fmt.Errorf("first hand: %w", err)
	}
	rb, err := Evaluate(b)
	if err != nil {
		return 0, fmt.Errorf("second hand: %w", err)
	}
	return CompareHands(ra, rb), nil
}

func validateHand(cards []Card) error {
	if len(cards) < 5 || len(cards) > 7 {
		return fmt.Errorf("%w: got %d", ErrCardCount, len(cards))
	}
	var seen CardSet
	for _, c := range cards {
		if !c.Valid() {
			return &ParseError{Token: c.String(), Reason: "not a card"}
		}
		if seen.Contains(c) {
			return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen.Add(c)
	}
	return nil
}

// Evaluator ranks seven card hands, preferring a lookup table when it holds one.
// An Evaluator is safe for concurrent use.
type Evaluator struct {
	table *LookupTable
}

// NewEvaluator returns an evaluator backed by table. A nil table means brute force.
func NewEvaluator(table *LookupTable) *Evaluator {
	return &Evaluator{table: table}
}

// HasTable reports whether lookups go through a table.
func (e *Evaluator) HasTable() bool {
	return e != nil && e.table != nil
}

// Evaluate7 ranks seven cards.
func (e *Evaluator) Evaluate7(cards [7]Card) HandRank {
	if e.HasTable() {
		if r, ok := e.table.Lookup(cards); ok {
			return r
		}
	}
	return Evaluate7Brute(cards)
}
