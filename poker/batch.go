package poker

import (
	"golang.org/x/sys/cpu"
)

// laneWidth is the number of hands processed together by the vector path.
const laneWidth = 8

// BatchEvaluator ranks many seven card hands at once.
type BatchEvaluator interface {
	// EvaluateBatch writes the rank of each hand into out, growing it if needed.
	EvaluateBatch(hands [][7]Card, out []HandRank) []HandRank
	// FindBest returns the index and rank of the strongest hand. Ties go to
	// the lowest index. It returns -1 for an empty batch.
	FindBest(hands [][7]Card) (int, HandRank)
	// CompareRankings returns, per position, 1 when a wins, -1 when b wins
	// and 0 for a tie. The result has the length of the shorter input.
	CompareRankings(a, b []HandRank) []int8
	// Vectorized reports whether the lane-blocked path is in use.
	Vectorized() bool
}

// HasVectorSupport reports whether the CPU has the vector units the blocked
// path is tuned for (AVX2 on amd64, ASIMD on arm64).
func HasVectorSupport() bool {
	return cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD
}

// NewBatchEvaluator picks the vector implementation when the CPU supports it
// and the scalar one otherwise. A nil evaluator uses DefaultEvaluator.
func NewBatchEvaluator(e *Evaluator) BatchEvaluator {
	if e == nil {
		e = DefaultEvaluator()
	}
	if HasVectorSupport() {
		return &vectorBatch{eval: e}
	}
	return &scalarBatch{eval: e}
}

// NewScalarBatchEvaluator always uses the per-hand loop.
func NewScalarBatchEvaluator(e *Evaluator) BatchEvaluator {
	if e == nil {
		e = DefaultEvaluator()
	}
	return &scalarBatch{eval: e}
}

type scalarBatch struct {
	eval *Evaluator
}

func (s *scalarBatch) Vectorized() bool { return false }

func (s *scalarBatch) EvaluateBatch(hands [][7]Card, out []HandRank) []HandRank {
	out = resizeRanks(out, len(hands))
	for i, h := range hands {
		out[i] = s.eval.Evaluate7(h)
	}
	return out
}

func (s *scalarBatch) FindBest(hands [][7]Card) (int, HandRank) {
	best, bestRank := -1, HandRank(0)
	for i, h := range hands {
		r := s.eval.Evaluate7(h)
		if best < 0 || r < bestRank {
			best, bestRank = i, r
		}
	}
	return best, bestRank
}

func (s *scalarBatch) CompareRankings(a, b []HandRank) []int8 {
	n := min(len(a), len(b))
	out := make([]int8, n)
	for i := range n {
		out[i] = int8(CompareHands(a[i], b[i]))
	}
	return out
}

// vectorBatch processes hands in blocks of laneWidth with the data laid out
// one lane per hand, so each step runs the same operation across the block.
// Tails shorter than a block and small batches use the scalar loop.
type vectorBatch struct {
	eval *Evaluator
}

func (v *vectorBatch) Vectorized() bool { return true }

func (v *vectorBatch) scalar() *scalarBatch { return &scalarBatch{eval: v.eval} }

func (v *vectorBatch) EvaluateBatch(hands [][7]Card, out []HandRank) []HandRank {
	if len(hands) < laneWidth {
		return v.scalar().EvaluateBatch(hands, out)
	}
	out = resizeRanks(out, len(hands))
	full := len(hands) - len(hands)%laneWidth
	var block [laneWidth]HandRank
	for base := 0; base < full; base += laneWidth {
		v.evaluateBlock((*[laneWidth][7]Card)(hands[base:base+laneWidth]), &block)
		copy(out[base:], block[:])
	}
	for i := full; i < len(hands); i++ {
		out[i] = v.eval.Evaluate7(hands[i])
	}
	return out
}

func (v *vectorBatch) evaluateBlock(hands *[laneWidth][7]Card, out *[laneWidth]HandRank) {
	if v.eval.HasTable() {
		var idx [laneWidth]uint32
		var ok [laneWidth]bool
		for lane := range laneWidth {
			idx[lane], ok[lane] = SevenCardIndex(hands[lane])
		}
		for lane := range laneWidth {
			if ok[lane] {
				out[lane], ok[lane] = v.eval.table.RankAt(idx[lane])
			}
		}
		for lane := range laneWidth {
			if !ok[lane] {
				out[lane] = Evaluate7Brute(hands[lane])
			}
		}
		return
	}

	for lane := range laneWidth {
		out[lane] = WorstRank
	}
	for _, c := range sevenCardCombos {
		for lane := range laneWidth {
			h := &hands[lane]
			r := Evaluate5(h[c[0]], h[c[1]], h[c[2]], h[c[3]], h[c[4]])
			if r < out[lane] {
				out[lane] = r
			}
		}
	}
}

func (v *vectorBatch) FindBest(hands [][7]Card) (int, HandRank) {
	if len(hands) < laneWidth {
		return v.scalar().FindBest(hands)
	}
	ranks := v.EvaluateBatch(hands, nil)

	// Per-lane minimum across blocks, then a reduction across lanes.
	var laneBest [laneWidth]int
	full := len(ranks) - len(ranks)%laneWidth
	for lane := range laneWidth {
		laneBest[lane] = lane
	}
	for base := laneWidth; base < full; base += laneWidth {
		for lane := range laneWidth {
			if ranks[base+lane] < ranks[laneBest[lane]] {
				laneBest[lane] = base + lane
			}
		}
	}
	best := laneBest[0]
	for _, i := range laneBest[1:] {
		if ranks[i] < ranks[best] || (ranks[i] == ranks[best] && i < best) {
			best = i
		}
	}
	for i := full; i < len(ranks); i++ {
		if ranks[i] < ranks[best] {
			best = i
		}
	}
	return best, ranks[best]
}

func (v *vectorBatch) CompareRankings(a, b []HandRank) []int8 {
	n := min(len(a), len(b))
	out := make([]int8, n)
	full := n - n%laneWidth
	for base := 0; base < full; base += laneWidth {
		for lane := range laneWidth {
			x, y := a[base+lane], b[base+lane]
			var gt, lt int8
			if x < y {
				gt = 1
			}
			if x > y {
				lt = 1
			}
			out[base+lane] = gt - lt
		}
	}
	for i := full; i < n; i++ {
		out[i] = int8(CompareHands(a[i], b[i]))
	}
	return out
}

func resizeRanks(out []HandRank, n int) []HandRank {
	if cap(out) < n {
		return make([]HandRank, n)
	}
	return out[:n]
}
