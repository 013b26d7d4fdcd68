package main

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokermath/equity"
	"github.com/lox/pokermath/poker"
)

func TestParseHands(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected int
		hasError bool
	}{
		{
			name:     "Single hand",
			input:    []string{"AcKh"},
			expected: 1,
			hasError: false,
		},
		{
			name:     "Multiple hands",
			input:    []string{"AcKh", "KdQs"},
			expected: 2,
			hasError: false,
		},
		{
			name:     "Hand with spaces",
			input:    []string{"Ac Kh"},
			expected: 1,
			hasError: false,
		},
		{
			name:     "Invalid hand - too many cards",
			input:    []string{"AcKhQd"},
			expected: 0,
			hasError: true,
		},
		{
			name:     "Invalid hand - too few cards",
			input:    []string{"Ac"},
			expected: 0,
			hasError: true,
		},
		{
			name:     "Comma separated",
			input:    []string{"Ac,Kh", "2c 2d"},
			expected: 2,
			hasError: false,
		},
		{
			name:     "Invalid card format",
			input:    []string{"AcXy"},
			expected: 0,
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := parseHands(tt.input)

			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if len(hands) != tt.expected {
				t.Errorf("Expected %d hands, got %d", tt.expected, len(hands))
			}

			for _, hand := range hands {
				if len(hand) != 2 {
					t.Errorf("Each hand should have exactly 2 cards, got %d", len(hand))
				}
			}
		})
	}
}

func TestParseSweep(t *testing.T) {
	input := `# hero villain [villain...] [board=...]
AsAh KsKh

AcKc QdQh 7s7d board=2c3d4h
7c2d AsAh board=2c7d9hJsQc
`
	queries, err := parseSweep(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(queries) != 3 {
		t.Fatalf("Expected 3 queries, got %d", len(queries))
	}

	if queries[0].Hero != "AsAh" || len(queries[0].Villains) != 1 || queries[0].Board != "" {
		t.Errorf("Unexpected first query: %+v", queries[0])
	}
	if len(queries[1].Villains) != 2 || queries[1].Board != "2c3d4h" {
		t.Errorf("Unexpected second query: %+v", queries[1])
	}

	if _, err := parseSweep(strings.NewReader("AsAh\n")); err == nil {
		t.Error("Expected error for a line without villains")
	}
}

func TestDisplaySweep(t *testing.T) {
	engine := equity.NewEngine(poker.NewEvaluator(nil), equity.Config{Trials: 500, Workers: 1, Seed: 1}, log.New(io.Discard))
	rows := engine.Sweep(context.Background(), []equity.Query{
		{Hero: "7c2d", Villains: []string{"AsAh"}, Board: "2c7d9hJsQc"},
		{Hero: "AsXx", Villains: []string{"KsKh"}},
	})

	var sb strings.Builder
	displaySweep(&sb, rows)
	out := sb.String()

	if !strings.Contains(out, "100.0%") {
		t.Errorf("Expected river row to show 100.0%% equity:\n%s", out)
	}
	if !strings.Contains(out, "invalid card") {
		t.Errorf("Expected bad row to show its error:\n%s", out)
	}
}

func TestDisplayResults(t *testing.T) {
	hands := [][]poker.Card{poker.MustParseCards("AsAh"), poker.MustParseCards("KsKh")}
	board := poker.MustParseCards("2c7d9hJsQc")
	engine := equity.NewEngine(poker.NewEvaluator(nil), equity.Config{Trials: 1}, log.New(io.Discard))

	res, err := engine.CalculateMultiway(context.Background(), hands, board, engine.Config())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var sb strings.Builder
	displayResults(&sb, hands, board, res, 1500*time.Microsecond)
	out := sb.String()

	for _, want := range []string{"As Ah", "AA", "Premium", "Pair", "100.0%", "1 iterations in 1ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestMadeHand(t *testing.T) {
	tests := []struct {
		hand, board, expected string
	}{
		{"AsAh", "", "."},
		{"AsAh", "AdAc2h", "Four of a Kind"},
		{"AsKs", "QsJsTs", "Royal Flush"},
		{"7c2d", "2c7d9h", "Two Pair"},
	}

	for _, tt := range tests {
		t.Run(tt.hand+tt.board, func(t *testing.T) {
			got := madeHand(poker.MustParseCards(tt.hand), poker.MustParseCards(tt.board))
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatCards(t *testing.T) {
	cards := poker.MustParseCards("AsKhQd")
	if got := formatCards(cards); got != "As Kh Qd" {
		t.Errorf("Expected %q, got %q", "As Kh Qd", got)
	}
	if got := formatCards(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
