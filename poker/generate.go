package poker

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of table entries each generator task computes.
const DefaultChunkSize = 100_000

// GenerateOptions tunes GenerateTable.
type GenerateOptions struct {
	// Workers is the number of chunks computed concurrently. Zero uses all CPUs.
	Workers int
	// ChunkSize is the number of entries per task. Zero uses DefaultChunkSize.
	ChunkSize int
	// Limit stops after this many entries. Zero generates the full table.
	Limit int
	// Progress, if set, is called after each batch of chunks is written with
	// the number of entries written so far and the target.
	Progress func(done, total int)
}

// GenerateRange fills out with the brute force rank of every seven card hand
// from combinadic index start onwards.
func GenerateRange(start uint32, out []HandRank) {
	if len(out) == 0 {
		return
	}
	sorted := combinadicDecode(start)
	var cards [7]Card
	for i := range out {
		for j, d := range sorted {
			cards[j] = cardTable[d]
		}
		out[i] = Evaluate7Brute(cards)
		if !nextCombination(&sorted) {
			return
		}
	}
}

// GenerateTable writes the lookup artifact to w in combinadic index order.
// Chunks are computed in parallel and written sequentially.
func GenerateTable(ctx context.Context, w io.Writer, opts GenerateOptions) error {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	total := NumSevenCardHands
	if opts.Limit > 0 && opts.Limit < total {
		total = opts.Limit
	}

	ranks := make([][]HandRank, workers)
	bufs := make([][]byte, workers)
	for i := range ranks {
		ranks[i] = make([]HandRank, chunkSize)
		bufs[i] = make([]byte, chunkSize*2)
	}

	done := 0
	for done < total {
		g, gctx := errgroup.WithContext(ctx)
		batchStart := done
		for i := 0; i < workers; i++ {
			start := batchStart + i*chunkSize
			if start >= total {
				ranks[i] = ranks[i][:0]
				continue
			}
			n := min(chunkSize, total-start)
			ranks[i] = ranks[i][:n]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				GenerateRange(uint32(start), ranks[i])
				buf := bufs[i][:n*2]
				for j, r := range ranks[i] {
					binary.LittleEndian.PutUint16(buf[j*2:], uint16(r))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("generate table at %d: %w", batchStart, err)
		}

		for i := range ranks {
			n := len(ranks[i])
			if n == 0 {
				break
			}
			if _, err := w.Write(bufs[i][:n*2]); err != nil {
				return fmt.Errorf("write table at %d: %w", done, err)
			}
			done += n
		}
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}
	return nil
}
