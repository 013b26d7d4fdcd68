package poker

// HandRank represents the strength of a poker hand on the 7462-class scale.
// Lower values are stronger: 1 is a royal flush, 7462 is 7-5-4-3-2 offsuit.
type HandRank uint16

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const (
	straightFlushCount = 10
	fourOfAKindCount   = 13 * 12
	fullHouseCount     = 13 * 12
	flushCount         = 1277
	straightCount      = 10
	threeOfAKindCount  = 13 * 66
	twoPairCount       = 78 * 11
	onePairCount       = 13 * 220
	highCardCount      = 1277
)

const (
	baseStraightFlush = 1
	baseFourOfAKind   = baseStraightFlush + straightFlushCount
	baseFullHouse     = baseFourOfAKind + fourOfAKindCount
	baseFlush         = baseFullHouse + fullHouseCount
	baseStraight      = baseFlush + flushCount
	baseThreeOfAKind  = baseStraight + straightCount
	baseTwoPair       = baseThreeOfAKind + threeOfAKindCount
	baseOnePair       = baseTwoPair + twoPairCount
	baseHighCard      = baseOnePair + onePairCount
)

const (
	// BestRank is the royal flush.
	BestRank HandRank = baseStraightFlush
	// WorstRank is 7-5-4-3-2 offsuit.
	WorstRank HandRank = baseHighCard + highCardCount - 1
	// NumRanks is the number of distinct 5-card hand strengths.
	NumRanks = int(WorstRank)
)

// boundaries mark the exclusive upper bound for each category in ascending strength order.
var handTypeBoundaries = [...]HandRank{
	HandRank(baseFourOfAKind),
	HandRank(baseFullHouse),
	HandRank(baseFlush),
	HandRank(baseStraight),
	HandRank(baseThreeOfAKind),
	HandRank(baseTwoPair),
	HandRank(baseOnePair),
	HandRank(baseHighCard),
	HandRank(baseHighCard + highCardCount),
}

// Type returns the type of hand (pair, flush, etc.).
func (hr HandRank) Type() HandType {
	switch {
	case hr < handTypeBoundaries[0]:
		return StraightFlush
	case hr < handTypeBoundaries[1]:
		return FourOfAKind
	case hr < handTypeBoundaries[2]:
		return FullHouse
	case hr < handTypeBoundaries[3]:
		return Flush
	case hr < handTypeBoundaries[4]:
		return Straight
	case hr < handTypeBoundaries[5]:
		return ThreeOfAKind
	case hr < handTypeBoundaries[6]:
		return TwoPair
	case hr < handTypeBoundaries[7]:
		return Pair
	default:
		return HighCard
	}
}

// Valid reports whether hr lies on the scale.
func (hr HandRank) Valid() bool {
	return hr >= BestRank && hr <= WorstRank
}

// IsRoyalFlush reports whether hr is the single best hand.
func (hr HandRank) IsRoyalFlush() bool {
	return hr == BestRank
}

// Strength inverts the scale so that greater is better (1..7462).
func (hr HandRank) Strength() int {
	return int(WorstRank) + 1 - int(hr)
}

// Percentile returns the share of hand classes that hr beats or equals, in [0,1].
func (hr HandRank) Percentile() float64 {
	return float64(int(WorstRank)-int(hr)) / float64(int(WorstRank)-1)
}

// Compare returns 1 if hr beats other, -1 if other wins, 0 for tie.
func (hr HandRank) Compare(other HandRank) int {
	return CompareHands(hr, other)
}

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	if hr.IsRoyalFlush() {
		return "Royal Flush"
	}
	return hr.Type().String()
}

func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// CompareHands compares two hands and returns 1 if a wins, -1 if b wins, 0 for tie
func CompareHands(a, b HandRank) int {
	if a < b {
		return 1
	} else if a > b {
		return -1
	}
	return 0
}
