package poker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/pokermath/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prefixTable generates the first n entries of the artifact in memory.
func prefixTable(t *testing.T, n int) *LookupTable {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, GenerateTable(context.Background(), &buf, GenerateOptions{Limit: n, ChunkSize: 4096}))
	require.Equal(t, n*2, buf.Len())
	return newLookupTableBytes(buf.Bytes())
}

func TestLoadLookupTableRejectsWrongSize(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), TableFileName)
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))

	table, err := LoadLookupTable(path)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrTableSize)

	_, err = LoadLookupTable(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)

	table, ok := FindLookupTable([]string{filepath.Join(t.TempDir(), "missing.bin"), path})
	assert.False(t, ok)
	assert.Nil(t, table)
}

func TestTablePathsHonoursEnv(t *testing.T) {
	t.Setenv(TableEnv, "/tmp/custom.bin")
	paths := TablePaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "/tmp/custom.bin", paths[0])
	assert.Contains(t, paths, filepath.Join("data", TableFileName))
}

func TestLookupTablePrefix(t *testing.T) {
	t.Parallel()

	const n = 50_000
	table := prefixTable(t, n)
	assert.Equal(t, n, table.Entries())

	// Index 0 is the seven lowest dense indices: 2c..8c, an eight-high straight flush.
	r, ok := table.RankAt(0)
	require.True(t, ok)
	first, _ := IndexToCards(0)
	assert.Equal(t, Evaluate7Brute(first), r)
	assert.Equal(t, StraightFlush, r.Type())

	_, ok = table.RankAt(n)
	assert.False(t, ok, "index past the end must miss")

	eval := NewEvaluator(table)
	assert.True(t, eval.HasTable())
	rng := randutil.New(17)
	for range 2000 {
		idx := rng.Uint32N(n)
		cards, _ := IndexToCards(idx)
		got, ok := table.Lookup(cards)
		require.True(t, ok)
		require.Equal(t, Evaluate7Brute(cards), got)
		require.Equal(t, got, eval.Evaluate7(cards))
	}

	// Hands outside the prefix fall back to brute force.
	cards := [7]Card(MustParseCards("As Ks Qs Js Ts 2d 3h"))
	_, ok = table.Lookup(cards)
	assert.False(t, ok)
	assert.Equal(t, BestRank, eval.Evaluate7(cards))

	assert.NoError(t, table.Close())
}

func TestLookupTableRejectsCorruptEntries(t *testing.T) {
	t.Parallel()

	table := newLookupTableBytes([]byte{0, 0, 0xFF, 0xFF})
	_, ok := table.RankAt(0)
	assert.False(t, ok)
	_, ok = table.RankAt(1)
	assert.False(t, ok)

	cards, _ := IndexToCards(0)
	assert.Equal(t, Evaluate7Brute(cards), NewEvaluator(table).Evaluate7(cards))
}

// TestDefaultTableMatchesBruteForce runs only where the artifact has been generated.
func TestDefaultTableMatchesBruteForce(t *testing.T) {
	table := DefaultTable()
	if table == nil {
		t.Skip("no lookup table present")
	}

	rng := randutil.New(1)
	deck := NewDeck(rng)
	for range 100_000 {
		deck.Shuffle()
		cards := [7]Card(deck.Deal(7))
		got, ok := table.Lookup(cards)
		require.True(t, ok)
		require.Equal(t, Evaluate7Brute(cards), got, FormatCards(cards[:]))
	}

	fixtures := []string{
		"As Ks Qs Js Ts 2c 3d",
		"5d 4d 3d 2d Ad Kc Kh",
		"Ah As Ad Ac Kh Kd Qs",
		"7s 5h 4d 3c 2h 9c Jd",
	}
	for _, f := range fixtures {
		cards := [7]Card(MustParseCards(f))
		got, ok := table.Lookup(cards)
		require.True(t, ok)
		assert.Equal(t, Evaluate7Brute(cards), got, f)
	}
}

func BenchmarkLookupTable(b *testing.B) {
	table := DefaultTable()
	if table == nil {
		b.Skip("no lookup table present")
	}
	cards := [7]Card(MustParseCards("As Kd 9h 9c 2s 7d Tc"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = table.Lookup(cards)
	}
}
