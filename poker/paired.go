package poker

import (
	"math/bits"
	"sync"

	chd "github.com/opencoff/go-chd"
)

// classifyPaired ranks a five card hand that repeats at least one rank, given
// the product of its rank primes and the OR of its rank bits. ok is false
// when the inputs do not describe such a hand; the rank is then WorstRank.
func classifyPaired(product uint32, rankOr uint16) (HandRank, bool) {
	var counts [13]uint8
	total := 0
	for m := rankOr & rankMask; m != 0; m &= m - 1 {
		r := bits.TrailingZeros16(m)
		p := rankPrimes[r]
		for product%p == 0 {
			product /= p
			counts[r]++
			total++
		}
	}
	if product != 1 || total != 5 {
		return WorstRank, false
	}

	// Ranks grouped by multiplicity, each list descending.
	var quad, trip int = -1, -1
	var pairs, singles []uint8
	for r := Ace; ; r-- {
		switch counts[r] {
		case 4:
			quad = int(r)
		case 3:
			trip = int(r)
		case 2:
			pairs = append(pairs, r)
		case 1:
			singles = append(singles, r)
		}
		if r == Two {
			break
		}
	}

	switch bits.OnesCount16(rankOr) {
	case 2:
		if quad >= 0 {
			q := uint8(quad)
			if len(singles) != 1 {
				return WorstRank, false
			}
			return HandRank(baseFourOfAKind + uint16(Ace-q)*12 + uint16(11-rankOrdinalAsc(singles[0], q))), true
		}
		if trip >= 0 && len(pairs) == 1 {
			t := uint8(trip)
			return HandRank(baseFullHouse + uint16(Ace-t)*12 + uint16(11-rankOrdinalAsc(pairs[0], t))), true
		}
	case 3:
		if trip >= 0 && len(singles) == 2 {
			t := uint8(trip)
			idx := uint16(t)*66 + colexIndex(rankOrdinalAsc(singles[0], t), rankOrdinalAsc(singles[1], t))
			return HandRank(baseThreeOfAKind + threeOfAKindCount - 1 - idx), true
		}
		if len(pairs) == 2 && len(singles) == 1 {
			hi, lo := pairs[0], pairs[1]
			idx := colexIndex(hi, lo)*11 + uint16(rankOrdinalAsc(singles[0], hi, lo))
			return HandRank(baseTwoPair + twoPairCount - 1 - idx), true
		}
	case 4:
		if len(pairs) == 1 && len(singles) == 3 {
			p := pairs[0]
			idx := uint16(p)*220 + colexIndex(
				rankOrdinalAsc(singles[0], p),
				rankOrdinalAsc(singles[1], p),
				rankOrdinalAsc(singles[2], p),
			)
			return HandRank(baseOnePair + onePairCount - 1 - idx), true
		}
	}
	return WorstRank, false
}

// pairedTable is a minimal perfect hash from prime product to rank over
// every paired five card rank multiset.
type pairedTable struct {
	hash  *chd.Chd
	keys  []uint32
	ranks []HandRank
}

var pairedHash = sync.OnceValue(func() *pairedTable {
	products := pairedProducts()

	b, err := chd.New()
	if err != nil {
		return nil
	}
	for _, p := range products {
		b.Add(uint64(p.product))
	}
	h, err := b.Freeze(0.9)
	if err != nil {
		return nil
	}

	t := &pairedTable{
		hash:  h,
		keys:  make([]uint32, len(products)),
		ranks: make([]HandRank, len(products)),
	}
	for _, p := range products {
		i := h.Find(uint64(p.product))
		if i >= uint64(len(t.keys)) || t.keys[i] != 0 {
			return nil
		}
		t.keys[i] = p.product
		t.ranks[i] = p.rank
	}
	return t
})

func lookupPaired(product uint32) (HandRank, bool) {
	t := pairedHash()
	if t == nil {
		return 0, false
	}
	i := t.hash.Find(uint64(product))
	if i >= uint64(len(t.keys)) || t.keys[i] != product {
		return 0, false
	}
	return t.ranks[i], true
}

type pairedEntry struct {
	product uint32
	rank    HandRank
}

// pairedProducts enumerates every five card rank multiset with a repeated
// rank (4888 of them) together with its rank.
func pairedProducts() []pairedEntry {
	entries := make([]pairedEntry, 0, fourOfAKindCount+fullHouseCount+threeOfAKindCount+twoPairCount+onePairCount)
	var counts [13]uint8
	var walk func(rank, left int)
	walk = func(rank, left int) {
		if rank == 13 {
			if left != 0 {
				return
			}
			var product uint32 = 1
			var rankOr uint16
			paired := false
			for r, n := range counts {
				for range n {
					product *= rankPrimes[r]
				}
				if n > 0 {
					rankOr |= 1 << r
				}
				if n > 1 {
					paired = true
				}
			}
			if !paired {
				return
			}
			if hr, ok := classifyPaired(product, rankOr); ok {
				entries = append(entries, pairedEntry{product: product, rank: hr})
			}
			return
		}
		for n := 0; n <= left && n <= 4; n++ {
			counts[rank] = uint8(n)
			walk(rank+1, left-n)
		}
		counts[rank] = 0
	}
	walk(0, 5)
	return entries
}
