package poker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/mmap"
)

const (
	// TableFileName is the conventional name of the seven card lookup artifact.
	TableFileName = "lookup_7cards.bin"

	// TableBytes is the exact size of a valid artifact: one little-endian
	// uint16 rank per combinadic index.
	TableBytes = NumSevenCardHands * 2

	// TableEnv names an extra artifact location probed before the defaults.
	TableEnv = "POKERMATH_TABLE"
)

// ErrTableSize is returned when an artifact does not have exactly TableBytes bytes.
var ErrTableSize = errors.New("lookup table has wrong size")

// byteSource is a read-only byte view. *mmap.ReaderAt satisfies it.
type byteSource interface {
	Len() int
	At(i int) byte
}

type byteSlice []byte

func (b byteSlice) Len() int      { return len(b) }
func (b byteSlice) At(i int) byte { return b[i] }

// LookupTable is a read-only view of the seven card rank artifact.
// It is safe for concurrent use.
type LookupTable struct {
	src    byteSource
	closer io.Closer
	path   string
}

// LoadLookupTable memory-maps the artifact at path. The file must be exactly
// TableBytes long.
func LoadLookupTable(path string) (*LookupTable, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lookup table: %w", err)
	}
	if r.Len() != TableBytes {
		size := r.Len()
		_ = r.Close()
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrTableSize, path, size, TableBytes)
	}
	return &LookupTable{src: r, closer: r, path: path}, nil
}

// newLookupTableBytes wraps an in-memory prefix of the artifact without
// validating its length. Indices past the end fall back to brute force.
func newLookupTableBytes(b []byte) *LookupTable {
	return &LookupTable{src: byteSlice(b)}
}

// Path returns the file the table was loaded from, if any.
func (t *LookupTable) Path() string {
	return t.path
}

// Entries returns the number of ranks the table holds.
func (t *LookupTable) Entries() int {
	return t.src.Len() / 2
}

// RankAt returns the rank stored at a combinadic index.
func (t *LookupTable) RankAt(index uint32) (HandRank, bool) {
	off := int(index) * 2
	if off+1 >= t.src.Len() {
		return 0, false
	}
	r := HandRank(uint16(t.src.At(off)) | uint16(t.src.At(off+1))<<8)
	if !r.Valid() {
		return 0, false
	}
	return r, true
}

// Lookup returns the rank of seven distinct cards. ok is false for duplicate
// cards or an index the table does not cover.
func (t *LookupTable) Lookup(cards [7]Card) (HandRank, bool) {
	idx, ok := SevenCardIndex(cards)
	if !ok {
		return 0, false
	}
	return t.RankAt(idx)
}

// Close unmaps the table. It must not be used afterwards.
func (t *LookupTable) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// TablePaths returns the locations probed for the default table, in order.
func TablePaths() []string {
	var paths []string
	if p := os.Getenv(TableEnv); p != "" {
		paths = append(paths, p)
	}
	for _, dir := range []string{"data", filepath.Join("..", "data"), filepath.Join("..", "..", "data")} {
		paths = append(paths, filepath.Join(dir, TableFileName))
	}
	return paths
}

// FindLookupTable loads the first valid table among paths. Candidates that
// exist but fail validation are logged and skipped.
func FindLookupTable(paths []string) (*LookupTable, bool) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		t, err := LoadLookupTable(p)
		if err != nil {
			log.Warn("ignoring lookup table", "path", p, "error", err)
			continue
		}
		log.Info("loaded lookup table", "path", p)
		return t, true
	}
	log.Debug("no lookup table found, using brute force evaluator", "paths", paths)
	return nil, false
}

var defaultTable = sync.OnceValue(func() *LookupTable {
	t, _ := FindLookupTable(TablePaths())
	return t
})

// DefaultTable returns the process-wide table, probing TablePaths on first
// use. It returns nil when no valid artifact was found.
func DefaultTable() *LookupTable {
	return defaultTable()
}

var defaultEvaluator = sync.OnceValue(func() *Evaluator {
	return NewEvaluator(DefaultTable())
})

// DefaultEvaluator returns the evaluator backed by DefaultTable.
func DefaultEvaluator() *Evaluator {
	return defaultEvaluator()
}
