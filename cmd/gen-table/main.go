package main

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokermath/internal/fileutil"
	"github.com/lox/pokermath/poker"
)

type CLI struct {
	Output    string `short:"o" help:"Where to write the lookup table" default:"data/lookup_7cards.bin" type:"path"`
	Workers   int    `short:"w" help:"Chunks computed in parallel (0 = all CPUs)" default:"0"`
	ChunkSize int    `help:"Entries per chunk" default:"100000"`
	Limit     int    `help:"Only write the first N entries (for smoke tests; the result is not a loadable table)" default:"0"`
	Verify    int    `help:"Spot check N random entries against enumeration after writing" default:"10000"`
	Force     bool   `short:"f" help:"Overwrite an existing table"`
	Debug     bool   `help:"Enable debug logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("gen-table"),
		kong.Description("Generate the seven card hand rank lookup table"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cli, logger, quartz.NewReal(), os.Stdout); err != nil {
		logger.Error("Table generation failed", "error", err)
		kctx.Exit(1)
	}
}

func run(ctx context.Context, cli CLI, logger *log.Logger, clock quartz.Clock, out io.Writer) error {
	if _, err := os.Stat(cli.Output); err == nil && !cli.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cli.Output)
	}
	if err := os.MkdirAll(filepath.Dir(cli.Output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	total := poker.NumSevenCardHands
	if cli.Limit > 0 && cli.Limit < total {
		total = cli.Limit
	}
	logger.Info("Generating lookup table", "output", cli.Output, "entries", total, "vectorized", poker.HasVectorSupport())

	monitor := NewProgressMonitor(out, clock)
	opts := poker.GenerateOptions{
		Workers:   cli.Workers,
		ChunkSize: cli.ChunkSize,
		Limit:     cli.Limit,
		Progress:  monitor.Update,
	}
	err := fileutil.WriteAtomic(cli.Output, 0o644, func(w io.Writer) error {
		return poker.GenerateTable(ctx, w, opts)
	})
	if err != nil {
		return err
	}
	monitor.PrintSummary(total)

	if cli.Verify <= 0 || total != poker.NumSevenCardHands {
		return nil
	}
	return verify(cli.Output, cli.Verify, logger)
}

// verify reopens the written table and compares n random entries with
// brute force enumeration.
func verify(path string, n int, logger *log.Logger) error {
	table, err := poker.LoadLookupTable(path)
	if err != nil {
		return err
	}
	defer table.Close()

	mismatches := 0
	for range n {
		index := rand.Uint32N(poker.NumSevenCardHands)
		cards, ok := poker.IndexToCards(index)
		if !ok {
			return fmt.Errorf("index %d did not decode", index)
		}
		got, ok := table.RankAt(index)
		if want := poker.Evaluate7Brute(cards); !ok || got != want {
			mismatches++
			logger.Warn("Table mismatch", "index", index, "cards", poker.FormatCards(cards[:]), "table", got, "want", want)
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d of %d sampled entries are wrong", mismatches, n)
	}
	logger.Info("Verified lookup table", "samples", n)
	return nil
}
