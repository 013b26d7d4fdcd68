package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokermath/poker"
)

func TestRunWritesPrefix(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "table.bin")
	cli := CLI{Output: out, Workers: 2, ChunkSize: 100, Limit: 1000, Verify: 10}

	var sb strings.Builder
	if err := run(context.Background(), cli, log.New(io.Discard), quartz.NewMock(t), &sb); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if len(data) != 2000 {
		t.Fatalf("Expected 2000 bytes, got %d", len(data))
	}

	// Index 0 is the lowest seven cards: 2c-8c, an eight-high straight flush.
	cards, _ := poker.IndexToCards(0)
	want := poker.Evaluate7Brute(cards)
	if got := poker.HandRank(uint16(data[0]) | uint16(data[1])<<8); got != want {
		t.Errorf("Entry 0: got %d, want %d", got, want)
	}

	if !strings.Contains(sb.String(), "Wrote 1000 entries") {
		t.Errorf("Expected summary, got %q", sb.String())
	}
}

func TestRunRefusesOverwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "table.bin")
	if err := os.WriteFile(out, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := CLI{Output: out, Limit: 10}
	if err := run(context.Background(), cli, log.New(io.Discard), quartz.NewMock(t), io.Discard); err == nil {
		t.Fatal("Expected error when output exists")
	}

	cli.Force = true
	if err := run(context.Background(), cli, log.New(io.Discard), quartz.NewMock(t), io.Discard); err != nil {
		t.Fatalf("run with --force failed: %v", err)
	}
	if info, _ := os.Stat(out); info.Size() != 20 {
		t.Errorf("Expected 20 bytes after overwrite, got %d", info.Size())
	}
}

func TestRunCancelledKeepsNoFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "table.bin")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli := CLI{Output: out, Workers: 1, ChunkSize: 10, Limit: 1000}
	if err := run(ctx, cli, log.New(io.Discard), quartz.NewMock(t), io.Discard); err == nil {
		t.Fatal("Expected cancellation error")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected empty directory, found %d entries", len(entries))
	}
}
