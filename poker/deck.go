package poker

import (
	rand "math/rand/v2"
)

// Deck represents the cards still available to deal. Dealt cards are not
// dealt again until the next shuffle.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled 52-card deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := NewDeckWithout(rng, 0)
	d.Shuffle()
	return d
}

// NewDeckWithout creates an unshuffled deck of every card not in dead, in
// dense index order. Shuffle or ShufflePartial before dealing.
func NewDeckWithout(rng *rand.Rand, dead CardSet) *Deck {
	return &Deck{cards: RemainingCards(dead), rng: rng}
}

// Shuffle shuffles the whole deck using Fisher-Yates and returns dealt cards to it.
func (d *Deck) Shuffle() {
	d.next = 0
	ShufflePartial(d.rng, d.cards, len(d.cards))
}

// ShufflePartial returns dealt cards to the deck and randomises only the
// first n positions, which is all a deal of n cards needs.
func (d *Deck) ShufflePartial(n int) {
	d.next = 0
	ShufflePartial(d.rng, d.cards, n)
}

// Deal deals n cards from the deck, or nil if fewer than n remain. The
// returned slice aliases the deck and is valid until the next shuffle.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// ShufflePartial runs the first n steps of a forward Fisher-Yates shuffle so
// that cards[:n] is a uniform random draw from cards. A nil rng uses the
// global source.
func ShufflePartial(rng *rand.Rand, cards []Card, n int) {
	if n > len(cards) {
		n = len(cards)
	}
	last := len(cards)
	for i := 0; i < n && i < last-1; i++ {
		var j int
		if rng != nil {
			j = i + rng.IntN(last-i)
		} else {
			j = i + rand.IntN(last-i)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// RemainingCards returns every card not in dead, in dense index order.
func RemainingCards(dead CardSet) []Card {
	return dead.Complement().Cards()
}
