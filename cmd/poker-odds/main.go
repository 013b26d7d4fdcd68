package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pokermath/equity"
	"github.com/lox/pokermath/poker"
)

type CLI struct {
	Hands      []string      `arg:"" optional:"" help:"Player hands in format 'AcKd QhJs' (space separated, quoted)"`
	Board      string        `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Iterations int           `short:"i" help:"Number of Monte Carlo iterations" default:"100000"`
	Threshold  float64       `short:"t" help:"Stop early once the estimate moves less than this between checks (0 disables)" default:"0.001"`
	Workers    int           `short:"w" help:"Parallel workers (0 = all CPUs)" default:"0"`
	Seed       *int64        `help:"Random seed for reproducible results"`
	Table      string        `help:"Path to the seven card lookup table" env:"POKERMATH_TABLE" type:"path"`
	Sweep      string        `help:"File of queries to run in turn, one per line: hero villain [villain...] [board=...]" type:"existingfile"`
	Timeout    time.Duration `help:"Abort the calculation after this long (0 = no limit)" default:"0"`
	Debug      bool          `help:"Enable debug logging"`
}

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Texas Hold'em equity calculator"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cli.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cli.Timeout)
		defer cancel()
	}

	engine, closeTable, err := newEngine(cli, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}
	defer closeTable()

	if cli.Sweep != "" {
		if err := runSweep(ctx, engine, cli.Sweep, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			kctx.Exit(1)
		}
		return
	}

	if len(cli.Hands) < 2 {
		fmt.Fprintf(os.Stderr, "Error: at least 2 hands are required\n")
		kctx.Exit(1)
	}

	hands, err := parseHands(cli.Hands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		kctx.Exit(1)
	}

	board, err := poker.ParseCards(cli.Board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
		kctx.Exit(1)
	}

	startTime := time.Now()
	res, err := engine.CalculateMultiway(ctx, hands, board, engine.Config())
	duration := time.Since(startTime)
	if err != nil {
		if res.Simulations == 0 {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			kctx.Exit(1)
		}
		logger.Warn("Calculation stopped early", "error", err, "simulations", res.Simulations)
	}

	displayResults(os.Stdout, hands, board, res, duration)
}

// newEngine builds the engine from flags. The returned func releases the
// lookup table when one was opened explicitly.
func newEngine(cli CLI, logger *log.Logger) (*equity.Engine, func(), error) {
	cfg := equity.Config{
		Trials:               cli.Iterations,
		ConvergenceThreshold: cli.Threshold,
		Workers:              cli.Workers,
		Seed:                 time.Now().UnixNano(),
	}
	if cli.Seed != nil {
		cfg.Seed = *cli.Seed
	}

	eval := poker.DefaultEvaluator()
	closeTable := func() {}
	if cli.Table != "" {
		table, err := poker.LoadLookupTable(cli.Table)
		if err != nil {
			return nil, nil, err
		}
		eval = poker.NewEvaluator(table)
		closeTable = func() { _ = table.Close() }
	}
	if !eval.HasTable() {
		logger.Debug("No lookup table, evaluating by enumeration")
	}
	return equity.NewEngine(eval, cfg, logger), closeTable, nil
}

func parseHands(handStrings []string) ([][]poker.Card, error) {
	var hands [][]poker.Card

	for i, handStr := range handStrings {
		hand, err := poker.ParseCards(strings.TrimSpace(handStr))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
		hands = append(hands, hand)
	}

	return hands, nil
}

func displayResults(out io.Writer, hands [][]poker.Card, board []poker.Card, res equity.MultiwayResult, duration time.Duration) {
	if len(board) > 0 {
		fmt.Fprintf(out, "%s\n", headerStyle.Render("board"))
		fmt.Fprintf(out, "%s\n\n", formatCards(board))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("class"),
		headerStyle.Render("made"))

	equities := res.Equities()
	for i, hand := range hands {
		var winPct float64
		if res.Simulations > 0 {
			winPct = float64(res.Wins[i]) / float64(res.Simulations) * 100
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			handStyle.Render(formatCards(hand)),
			winStyle.Render(fmt.Sprintf("%.1f%%", equities[i]*100)),
			winStyle.Render(fmt.Sprintf("%.1f%%", winPct)),
			categoryStyle.Render(fmt.Sprintf("%s %s", poker.HoleNotation(hand[0], hand[1]), poker.CategorizeHoleCards(hand[0], hand[1]))),
			categoryStyle.Render(madeHand(hand, board)))
	}

	w.Flush()

	fmt.Fprintf(out, "\n")
	if res.Simulations > 0 {
		fmt.Fprintf(out, "%s\n", tieStyle.Render(fmt.Sprintf("tie %.1f%%", float64(res.Ties)/float64(res.Simulations)*100)))
	}
	var note string
	if res.ConvergedEarly && len(board) < 5 {
		note = ", converged early"
	}
	fmt.Fprintf(out, "%d iterations in %v (±%.2f%%%s)\n",
		res.Simulations, duration.Truncate(time.Millisecond), res.StandardError*100, note)
}

// madeHand names the best hand the player holds on the current board, or
// "." before the flop.
func madeHand(hand, board []poker.Card) string {
	if len(board) < 3 {
		return "."
	}
	rank, err := poker.Evaluate(append(append([]poker.Card(nil), hand...), board...))
	if err != nil {
		return "."
	}
	return rank.String()
}

// parseSweep reads one query per line. Blank lines and lines starting with
// '#' are skipped. Each line holds the hero followed by one or more villains;
// a token of the form board=... sets the board.
func parseSweep(r io.Reader) ([]equity.Query, error) {
	var queries []equity.Query
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var q equity.Query
		for _, field := range strings.Fields(text) {
			switch {
			case strings.HasPrefix(field, "board="):
				q.Board = strings.TrimPrefix(field, "board=")
			case q.Hero == "":
				q.Hero = field
			default:
				q.Villains = append(q.Villains, field)
			}
		}
		if len(q.Villains) == 0 {
			return nil, fmt.Errorf("line %d: expected a hero and at least one villain", line)
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return queries, nil
}

func runSweep(ctx context.Context, engine *equity.Engine, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	queries, err := parseSweep(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	displaySweep(out, engine.Sweep(ctx, queries))
	return nil
}

func displaySweep(out io.Writer, rows []equity.SweepRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hero"),
		headerStyle.Render("villains"),
		headerStyle.Render("board"),
		headerStyle.Render("equity"),
		headerStyle.Render("trials"))

	for _, row := range rows {
		board := row.Query.Board
		if board == "" {
			board = "-"
		}
		prefix := fmt.Sprintf("%s\t%s\t%s\t",
			handStyle.Render(row.Query.Hero),
			strings.Join(row.Query.Villains, " "),
			board)
		if row.Err != nil {
			fmt.Fprintf(w, "%s%s\t\n", prefix, errorStyle.Render(row.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s%s\t%d\n", prefix,
			winStyle.Render(fmt.Sprintf("%.1f%% ±%.1f", row.Result.HeroEquity()*100, row.Result.StandardError*100)),
			row.Result.Simulations)
	}
	w.Flush()
}

func formatCards(cards []poker.Card) string {
	var parts []string
	for _, card := range cards {
		parts = append(parts, card.String())
	}
	return strings.Join(parts, " ")
}
