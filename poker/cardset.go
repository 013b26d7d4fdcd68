package poker

import "math/bits"

// CardSet is a bitset over dense card indices.
type CardSet uint64

// NewCardSet creates a set from cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add inserts a card into the set.
func (s *CardSet) Add(c Card) {
	*s |= 1 << c.Index()
}

// Remove deletes a card from the set.
func (s *CardSet) Remove(c Card) {
	*s &^= 1 << c.Index()
}

// Contains reports whether the card is in the set.
func (s CardSet) Contains(c Card) bool {
	return s&(1<<c.Index()) != 0
}

// Count returns the number of cards in the set.
func (s CardSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Cards returns the members in ascending index order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Count())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, cardTable[bits.TrailingZeros64(v)])
	}
	return out
}

// Complement returns every card not in the set.
func (s CardSet) Complement() CardSet {
	const full = CardSet(1<<DeckSize - 1)
	return full &^ s
}
