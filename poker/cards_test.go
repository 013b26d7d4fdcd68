package poker

import (
	"errors"
	"testing"

	"github.com/lox/pokermath/internal/randutil"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank() != Ace {
		t.Errorf("Expected rank Ace, got %d", aceSpades.Rank())
	}
	if aceSpades.Suit() != Spades {
		t.Errorf("Expected suit Spades, got %d", aceSpades.Suit())
	}
	if aceSpades.String() != "As" {
		t.Errorf("Expected 'As', got %s", aceSpades.String())
	}

	twoClubs := NewCard(Two, Clubs)
	if twoClubs.String() != "2c" {
		t.Errorf("Expected '2c', got %s", twoClubs.String())
	}
}

func TestCardFields(t *testing.T) {
	t.Parallel()
	kd := NewCard(King, Diamonds)
	if kd.Prime() != 37 {
		t.Errorf("Prime() = %d, want 37", kd.Prime())
	}
	if kd.RankBit() != 1<<King {
		t.Errorf("RankBit() = %013b, want %013b", kd.RankBit(), 1<<King)
	}
	if kd.SuitBit() != 1<<Diamonds {
		t.Errorf("SuitBit() = %04b, want %04b", kd.SuitBit(), 1<<Diamonds)
	}
	if kd.Index() != 13+11 {
		t.Errorf("Index() = %d, want 24", kd.Index())
	}

	var zero Card
	if zero.Valid() {
		t.Error("zero card must not be valid")
	}
	if zero.String() != "??" {
		t.Errorf("zero card String() = %q", zero.String())
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCard Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", wantCard: NewCard(Ace, Spades)},
		{name: "two of hearts", input: "2h", wantCard: NewCard(Two, Hearts)},
		{name: "king of diamonds", input: "Kd", wantCard: NewCard(King, Diamonds)},
		{name: "ten with T notation", input: "Tc", wantCard: NewCard(Ten, Clubs)},
		{name: "lowercase rank", input: "qs", wantCard: NewCard(Queen, Spades)},
		{name: "uppercase suit", input: "9S", wantCard: NewCard(Nine, Spades)},
		{name: "invalid rank", input: "Xs", wantErr: true},
		{name: "invalid suit", input: "Ax", wantErr: true},
		{name: "ten as digits", input: "10s", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if tc.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("ParseCard(%q) error = %v, want *ParseError", tc.input, err)
				}
				if card != 0 {
					t.Errorf("ParseCard(%q) produced %v alongside an error", tc.input, card)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard(%q) unexpected error: %v", tc.input, err)
			}
			if card != tc.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tc.input, card, tc.wantCard)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"AsKd", "As Kd", "As,Kd", " As , Kd "} {
		cards, err := ParseCards(in)
		if err != nil {
			t.Fatalf("ParseCards(%q): %v", in, err)
		}
		if FormatCards(cards) != "AsKd" {
			t.Errorf("ParseCards(%q) = %s", in, FormatCards(cards))
		}
	}
	if _, err := ParseCards("AsK"); err == nil {
		t.Error("expected error for dangling character")
	}
	if cards, err := ParseCards(""); err != nil || len(cards) != 0 {
		t.Errorf("empty input = %v, %v", cards, err)
	}
}

func TestAll52Cards(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	primes := make(map[uint32]int)

	for i := range DeckSize {
		card, ok := CardFromIndex(i)
		if !ok {
			t.Fatalf("CardFromIndex(%d) failed", i)
		}
		if int(card.Index()) != i {
			t.Errorf("index round-trip failed: %d -> %d", i, card.Index())
		}
		str := card.String()
		if seen[str] {
			t.Errorf("Duplicate card: %s", str)
		}
		seen[str] = true
		primes[card.Prime()]++

		parsed, err := ParseCard(str)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", str, err)
		}
		if parsed != card {
			t.Errorf("Round-trip failed for %s", str)
		}
	}

	if len(seen) != 52 {
		t.Errorf("Expected 52 unique cards, got %d", len(seen))
	}
	if len(primes) != 13 {
		t.Errorf("Expected 13 distinct primes, got %d", len(primes))
	}
	if _, ok := CardFromIndex(52); ok {
		t.Error("CardFromIndex(52) should fail")
	}
	if _, ok := CardFromIndex(-1); ok {
		t.Error("CardFromIndex(-1) should fail")
	}
}

func TestCardSet(t *testing.T) {
	t.Parallel()
	as, kh, qd := NewCard(Ace, Spades), NewCard(King, Hearts), NewCard(Queen, Diamonds)

	set := NewCardSet(as, kh)
	if !set.Contains(as) || !set.Contains(kh) {
		t.Error("set should contain As and Kh")
	}
	if set.Contains(qd) {
		t.Error("set should not contain Qd")
	}
	if set.Count() != 2 {
		t.Errorf("Count() = %d, want 2", set.Count())
	}

	set.Add(qd)
	set.Remove(as)
	if set.Contains(as) || set.Count() != 2 {
		t.Errorf("after add/remove got %s", FormatCards(set.Cards()))
	}
	if got := len(RemainingCards(set)); got != 50 {
		t.Errorf("RemainingCards = %d, want 50", got)
	}
}

func TestDeck(t *testing.T) {
	t.Parallel()
	deck := NewDeck(randutil.New(42))

	cards1 := deck.Deal(2)
	if len(cards1) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(cards1))
	}
	cards2 := deck.Deal(3)
	if len(cards2) != 3 {
		t.Errorf("Expected 3 cards, got %d", len(cards2))
	}
	for _, c1 := range cards1 {
		for _, c2 := range cards2 {
			if c1 == c2 {
				t.Error("Dealt same card twice")
			}
		}
	}

	remaining := deck.Deal(47)
	if len(remaining) != 47 {
		t.Errorf("Expected 47 remaining cards, got %d", len(remaining))
	}
	if extra := deck.Deal(1); extra != nil {
		t.Error("Should not be able to deal from empty deck")
	}

	deck.Shuffle()
	if all := deck.Deal(DeckSize); NewCardSet(all...).Count() != DeckSize {
		t.Errorf("Shuffle should return every card, dealt %d distinct", NewCardSet(all...).Count())
	}
}

func TestDeckWithoutDeadCards(t *testing.T) {
	t.Parallel()
	dead := NewCardSet(MustParseCards("AsAhKdKc")...)
	deck := NewDeckWithout(randutil.New(5), dead)
	if all := deck.Deal(48); len(all) != 48 || deck.Deal(1) != nil {
		t.Fatalf("Expected exactly 48 cards, got %d", len(all))
	}

	for range 200 {
		deck.ShufflePartial(5)
		board := deck.Deal(5)
		if len(board) != 5 {
			t.Fatalf("Expected 5 cards, got %d", len(board))
		}
		set := NewCardSet(board...)
		if set.Count() != 5 {
			t.Fatalf("Dealt a card twice: %s", FormatCards(board))
		}
		if set&dead != 0 {
			t.Fatalf("Dealt a dead card: %s", FormatCards(board))
		}
	}
}

func TestShufflePartialKeepsCards(t *testing.T) {
	t.Parallel()
	rng := randutil.New(7)
	cards := RemainingCards(0)
	for range 100 {
		ShufflePartial(rng, cards, 5)
		if NewCardSet(cards...).Count() != DeckSize {
			t.Fatal("partial shuffle lost cards")
		}
	}

	deck := NewDeckWithout(randutil.New(1), 0)
	deck.ShufflePartial(3)
	dealt := deck.Deal(3)
	if NewCardSet(dealt...).Count() != 3 {
		t.Errorf("partial deal repeated a card: %s", FormatCards(dealt))
	}
}

func BenchmarkCardCreation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewCard(Ace, Spades)
	}
}

func BenchmarkParseCard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseCard("As")
	}
}
