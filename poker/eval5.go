package poker

// Evaluate5 ranks exactly five cards. Cards are assumed distinct.
func Evaluate5(c1, c2, c3, c4, c5 Card) HandRank {
	rankOr := uint16((c1|c2|c3|c4|c5)>>16) & rankMask

	if (c1 & c2 & c3 & c4 & c5 & 0xF000) != 0 {
		if r := flushRanks[rankOr]; r != 0 {
			return r
		}
	} else if r := uniqueRanks[rankOr]; r != 0 {
		return r
	}

	product := c1.Prime() * c2.Prime() * c3.Prime() * c4.Prime() * c5.Prime()
	if r, ok := lookupPaired(product); ok {
		return r
	}
	r, _ := classifyPaired(product, rankOr)
	return r
}

// Evaluate5Cards ranks a five card array.
func Evaluate5Cards(cards [5]Card) HandRank {
	return Evaluate5(cards[0], cards[1], cards[2], cards[3], cards[4])
}
