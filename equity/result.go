package equity

import "math"

// Result is the outcome of a hero versus villain(s) calculation. Counts are
// per trial: a trial is a tie when the hero shares the best hand, and a
// villain win whenever someone else holds a better hand.
type Result struct {
	Players        int
	HeroWins       int
	VillainWins    int
	Ties           int
	Simulations    int
	ConvergedEarly bool
	StandardError  float64
}

// InvalidResult is the zero-confidence row used for inputs that could not be
// simulated: no trials and a standard error of 1.
func InvalidResult() Result {
	return Result{StandardError: 1.0}
}

// Valid reports whether the result is backed by at least one trial.
func (r Result) Valid() bool {
	return r.Simulations > 0
}

// HeroWinRate returns the share of trials the hero won outright.
func (r Result) HeroWinRate() float64 {
	return r.rate(r.HeroWins)
}

// VillainWinRate returns the share of trials a villain won.
func (r Result) VillainWinRate() float64 {
	return r.rate(r.VillainWins)
}

// TieRate returns the share of tied trials.
func (r Result) TieRate() float64 {
	return r.rate(r.Ties)
}

// HeroEquity returns wins plus an equal share of ties, per trial.
// Heads-up a tie is worth half.
func (r Result) HeroEquity() float64 {
	if r.Simulations == 0 {
		return 0
	}
	return (float64(r.HeroWins) + float64(r.Ties)/float64(r.players())) / float64(r.Simulations)
}

// VillainEquity returns the equity held by the villains combined.
func (r Result) VillainEquity() float64 {
	if r.Simulations == 0 {
		return 0
	}
	return 1 - r.HeroEquity()
}

// ConfidenceInterval returns the 95% confidence interval for hero equity.
func (r Result) ConfidenceInterval() (lower, upper float64) {
	if r.Simulations == 0 {
		return 0, 1
	}
	equity := r.HeroEquity()
	margin := 1.96 * r.StandardError
	return math.Max(0, equity-margin), math.Min(1, equity+margin)
}

func (r Result) rate(n int) float64 {
	if r.Simulations == 0 {
		return 0
	}
	return float64(n) / float64(r.Simulations)
}

func (r Result) players() int {
	if r.Players < 2 {
		return 2
	}
	return r.Players
}

// MultiwayResult is the outcome of an all-versus-all calculation.
type MultiwayResult struct {
	// Wins holds outright wins per hand, in input order.
	Wins []int
	// Ties counts trials where two or more hands shared the best rank.
	Ties           int
	Simulations    int
	ConvergedEarly bool
	// StandardError is the standard error of the first hand's equity.
	StandardError float64
}

// Equities returns each hand's equity: outright wins plus an equal share of
// every tied trial. The values sum to 1.
func (r MultiwayResult) Equities() []float64 {
	out := make([]float64, len(r.Wins))
	if r.Simulations == 0 || len(r.Wins) == 0 {
		return out
	}
	share := float64(r.Ties) / float64(len(r.Wins))
	for i, w := range r.Wins {
		out[i] = (float64(w) + share) / float64(r.Simulations)
	}
	return out
}

func standardError(p float64, n int) float64 {
	if n <= 0 {
		return 1.0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}
