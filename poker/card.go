package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Card packs a playing card into 32 bits:
//
//	bits 0-5   prime assigned to the rank
//	bits 8-11  rank (0-12 for deuce through ace)
//	bits 12-15 suit bit (one of four)
//	bits 16-28 rank bit (one of thirteen)
//
// The zero Card is not a card.
type Card uint32

// Suit constants
const (
	Clubs    uint8 = 0
	Diamonds uint8 = 1
	Hearts   uint8 = 2
	Spades   uint8 = 3
)

// Rank constants (0-12 for 2-A)
const (
	Two   uint8 = 0
	Three uint8 = 1
	Four  uint8 = 2
	Five  uint8 = 3
	Six   uint8 = 4
	Seven uint8 = 5
	Eight uint8 = 6
	Nine  uint8 = 7
	Ten   uint8 = 8
	Jack  uint8 = 9
	Queen uint8 = 10
	King  uint8 = 11
	Ace   uint8 = 12
)

const (
	// DeckSize is the number of distinct cards.
	DeckSize = 52

	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

var rankPrimes = [13]uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

// cardTable maps a dense index (suit*13 + rank) to its Card.
var cardTable = func() [DeckSize]Card {
	var table [DeckSize]Card
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			table[suit*13+rank] = NewCard(rank, suit)
		}
	}
	return table
}()

// NewCard creates a card from rank and suit.
func NewCard(rank, suit uint8) Card {
	return Card(rankPrimes[rank] |
		uint32(rank)<<8 |
		uint32(1)<<(12+suit) |
		uint32(1)<<(16+rank))
}

// CardFromIndex returns the card at dense index i (0-51).
func CardFromIndex(i int) (Card, bool) {
	if i < 0 || i >= DeckSize {
		return 0, false
	}
	return cardTable[i], true
}

// Rank returns the rank of the card (0-12)
func (c Card) Rank() uint8 {
	return uint8(c>>8) & 0xF
}

// Suit returns the suit of the card (0-3), or 255 for the zero card.
func (c Card) Suit() uint8 {
	sb := c.SuitBit()
	if sb == 0 {
		return 255
	}
	return uint8(bits.TrailingZeros8(sb))
}

// Prime returns the prime assigned to the card's rank.
func (c Card) Prime() uint32 {
	return uint32(c) & 0x3F
}

// RankBit returns the card's single-bit rank indicator (13-bit field).
func (c Card) RankBit() uint16 {
	return uint16(c >> 16)
}

// SuitBit returns the card's single-bit suit indicator (4-bit field).
func (c Card) SuitBit() uint8 {
	return uint8(c>>12) & 0xF
}

// Index returns the dense index suit*13 + rank.
func (c Card) Index() uint8 {
	return c.Suit()*13 + c.Rank()
}

// Valid reports whether c is one of the 52 cards.
func (c Card) Valid() bool {
	rank := c.Rank()
	if rank > Ace || bits.OnesCount8(c.SuitBit()) != 1 {
		return false
	}
	return c == NewCard(rank, c.Suit())
}

// String returns the string representation (e.g., "As", "Kh")
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(rankChars[c.Rank()]) + string(suitChars[c.Suit()])
}

// ParseError reports a malformed card token.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid card %q: %s", e.Token, e.Reason)
}

// ParseCard parses a string like "As" into a Card. Rank letters are
// case-insensitive and both suit cases are accepted.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, &ParseError{Token: s, Reason: "expected 2 characters"}
	}

	var rank uint8
	switch s[0] {
	case '2':
		rank = Two
	case '3':
		rank = Three
	case '4':
		rank = Four
	case '5':
		rank = Five
	case '6':
		rank = Six
	case '7':
		rank = Seven
	case '8':
		rank = Eight
	case '9':
		rank = Nine
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return 0, &ParseError{Token: s, Reason: fmt.Sprintf("unknown rank %q", s[0])}
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return 0, &ParseError{Token: s, Reason: fmt.Sprintf("unknown suit %q", s[1])}
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a run of cards. Tokens may be concatenated ("AsKd"),
// or separated by spaces or commas ("As Kd", "As,Kd").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	cards := make([]Card, 0, 7)
	for _, field := range fields {
		if len(field)%2 != 0 {
			return nil, &ParseError{Token: field, Reason: "odd number of characters"}
		}
		for i := 0; i < len(field); i += 2 {
			card, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards as concatenated tokens, e.g. "AsKd".
func FormatCards(cards []Card) string {
	var sb strings.Builder
	sb.Grow(len(cards) * 2)
	for _, c := range cards {
		sb.WriteString(c.String())
	}
	return sb.String()
}
