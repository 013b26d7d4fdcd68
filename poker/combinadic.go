package poker

// NumSevenCardHands is C(52, 7), the number of unordered seven card hands.
const NumSevenCardHands = 133784560

// SevenCardIndex returns the combinadic index of seven cards:
// sum of C(c_i, i+1) over the dense indices sorted ascending.
// ok is false when the cards are not seven distinct valid cards.
func SevenCardIndex(cards [7]Card) (uint32, bool) {
	var idx [7]uint8
	for i, c := range cards {
		if !c.Valid() {
			return 0, false
		}
		idx[i] = c.Index()
	}
	sortSmallUint8(idx[:])
	for i := 1; i < len(idx); i++ {
		if idx[i] == idx[i-1] {
			return 0, false
		}
	}
	return combinadicIndex(idx), true
}

func combinadicIndex(sorted [7]uint8) uint32 {
	return binomial[sorted[0]][1] +
		binomial[sorted[1]][2] +
		binomial[sorted[2]][3] +
		binomial[sorted[3]][4] +
		binomial[sorted[4]][5] +
		binomial[sorted[5]][6] +
		binomial[sorted[6]][7]
}

// IndexToCards inverts SevenCardIndex, returning cards in ascending dense
// index order. ok is false when index >= NumSevenCardHands.
func IndexToCards(index uint32) ([7]Card, bool) {
	var cards [7]Card
	if index >= NumSevenCardHands {
		return cards, false
	}
	for i, d := range combinadicDecode(index) {
		cards[i] = cardTable[d]
	}
	return cards, true
}

// combinadicDecode greedily picks, for k from 7 down to 1, the largest n with
// C(n, k) <= remaining.
func combinadicDecode(index uint32) [7]uint8 {
	var out [7]uint8
	n := DeckSize - 1
	for k := 7; k >= 1; k-- {
		for binomial[n][k] > index {
			n--
		}
		out[k-1] = uint8(n)
		index -= binomial[n][k]
		n--
	}
	return out
}

// nextCombination advances sorted to the next seven card set in colex
// order, which is the next combinadic index. It reports false after the last set.
func nextCombination(sorted *[7]uint8) bool {
	for i := 0; i < len(sorted); i++ {
		limit := uint8(DeckSize)
		if i+1 < len(sorted) {
			limit = sorted[i+1]
		}
		if sorted[i]+1 < limit {
			sorted[i]++
			for j := 0; j < i; j++ {
				sorted[j] = uint8(j)
			}
			return true
		}
	}
	return false
}
