package poker

import "math/bits"

const (
	rankMask  = 0x1FFF // 13 bits for ranks
	wheelMask = 0x100F // Ace + 2-3-4-5
)

// binomial[n][k] = C(n, k) for n <= 52, k <= 7, built with Pascal's rule.
var binomial = func() [DeckSize + 1][8]uint32 {
	var table [DeckSize + 1][8]uint32
	for n := range len(table) {
		table[n][0] = 1
		for k := 1; k < len(table[n]) && k <= n; k++ {
			table[n][k] = table[n-1][k-1]
			if k < n {
				table[n][k] += table[n-1][k]
			}
		}
	}
	return table
}()

// Binomial returns C(n, k) for 0 <= n <= 52 and 0 <= k <= 7, and 0 otherwise.
func Binomial(n, k int) uint32 {
	if n < 0 || n > DeckSize || k < 0 || k > 7 {
		return 0
	}
	return binomial[n][k]
}

// straightRanks maps a 13-bit straight pattern to its rank within the
// straight family (0 = ace high, 9 = wheel).
var straightRanks = func() map[uint16]uint16 {
	m := make(map[uint16]uint16, straightCount)
	for high := Ace; high >= Six; high-- {
		m[uint16(0x1F)<<(high-4)] = uint16(Ace - high)
	}
	m[wheelMask] = straightCount - 1
	return m
}()

// flushRanks and uniqueRanks are indexed by the OR of five distinct rank
// bits. Patterns that are not straights are numbered in descending mask
// order, which for equal popcount is descending poker strength. Entries for
// patterns without five bits are zero.
var flushRanks, uniqueRanks = func() (flush, unique [rankMask + 1]HandRank) {
	var next uint16
	for mask := rankMask; mask >= 0; mask-- {
		if bits.OnesCount16(uint16(mask)) != 5 {
			continue
		}
		if s, ok := straightRanks[uint16(mask)]; ok {
			flush[mask] = HandRank(baseStraightFlush + s)
			unique[mask] = HandRank(baseStraight + s)
			continue
		}
		flush[mask] = HandRank(baseFlush + next)
		unique[mask] = HandRank(baseHighCard + next)
		next++
	}
	return flush, unique
}()

// colexIndex returns the colexicographic rank of a set of distinct
// ordinals given in descending order: sum of C(o_i, k-i).
func colexIndex(desc ...uint8) uint16 {
	var idx uint32
	k := len(desc)
	for i, o := range desc {
		idx += binomial[o][k-i]
	}
	return uint16(idx)
}

// rankOrdinalAsc returns rank's position among the 13 ranks once excludes
// are removed.
func rankOrdinalAsc(rank uint8, excludes ...uint8) uint8 {
	var offset uint8
	for _, ex := range excludes {
		if ex < rank {
			offset++
		}
	}
	return rank - offset
}

func sortSmallUint8(vals []uint8) {
	for i := 1; i < len(vals); i++ {
		v := vals[i]
		j := i - 1
		for j >= 0 && vals[j] > v {
			vals[j+1] = vals[j]
			j--
		}
		vals[j+1] = v
	}
}
