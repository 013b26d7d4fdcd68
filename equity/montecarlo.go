package equity

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/lox/pokermath/internal/randutil"
	"github.com/lox/pokermath/poker"
	"golang.org/x/sync/errgroup"
)

// Calculate estimates hero equity against one or more villains using the
// default evaluator. See Engine.Calculate.
func Calculate(ctx context.Context, hero []poker.Card, villains [][]poker.Card, board []poker.Card, cfg Config) (Result, error) {
	return calculate(ctx, poker.DefaultEvaluator(), hero, villains, board, cfg)
}

// CalculateMultiway estimates every hand's equity against all the others
// using the default evaluator. See Engine.CalculateMultiway.
func CalculateMultiway(ctx context.Context, hands [][]poker.Card, board []poker.Card, cfg Config) (MultiwayResult, error) {
	return calculateMultiway(ctx, poker.DefaultEvaluator(), hands, board, cfg)
}

func calculate(ctx context.Context, eval *poker.Evaluator, hero []poker.Card, villains [][]poker.Card, board []poker.Card, cfg Config) (Result, error) {
	if len(villains) == 0 {
		return InvalidResult(), ErrTooFewPlayers
	}
	hands := make([][]poker.Card, 0, len(villains)+1)
	hands = append(hands, hero)
	hands = append(hands, villains...)

	t, err := simulate(ctx, eval, hands, board, cfg)
	if t.trials == 0 {
		return InvalidResult(), err
	}
	res := Result{
		Players:        len(hands),
		HeroWins:       t.wins[0],
		Ties:           t.heroTies,
		VillainWins:    t.trials - t.wins[0] - t.heroTies,
		Simulations:    t.trials,
		ConvergedEarly: t.converged,
	}
	if !t.exact {
		res.StandardError = standardError(res.HeroEquity(), res.Simulations)
	}
	return res, err
}

func calculateMultiway(ctx context.Context, eval *poker.Evaluator, hands [][]poker.Card, board []poker.Card, cfg Config) (MultiwayResult, error) {
	if len(hands) < 2 {
		return MultiwayResult{StandardError: 1.0}, ErrTooFewPlayers
	}
	t, err := simulate(ctx, eval, hands, board, cfg)
	if t.trials == 0 {
		return MultiwayResult{Wins: make([]int, len(hands)), StandardError: 1.0}, err
	}
	res := MultiwayResult{
		Wins:           t.wins,
		Ties:           t.ties,
		Simulations:    t.trials,
		ConvergedEarly: t.converged,
	}
	if !t.exact {
		res.StandardError = standardError(res.Equities()[0], res.Simulations)
	}
	return res, err
}

// tally accumulates trial outcomes. wins counts outright wins per hand,
// ties counts trials with a shared best hand and heroTies the subset of
// those the first hand shares.
type tally struct {
	wins      []int
	ties      int
	heroTies  int
	trials    int
	converged bool
	exact     bool
}

func newTally(players int) tally {
	return tally{wins: make([]int, players)}
}

func (t *tally) add(o tally) {
	for i, w := range o.wins {
		t.wins[i] += w
	}
	t.ties += o.ties
	t.heroTies += o.heroTies
	t.trials += o.trials
}

// record scores one trial from the players' ranks.
func (t *tally) record(ranks []poker.HandRank) {
	best, winner, shared := ranks[0], 0, 1
	for i := 1; i < len(ranks); i++ {
		switch r := ranks[i]; {
		case r < best:
			best, winner, shared = r, i, 1
		case r == best:
			shared++
		}
	}
	t.trials++
	if shared == 1 {
		t.wins[winner]++
		return
	}
	t.ties++
	if ranks[0] == best {
		t.heroTies++
	}
}

// heroEstimate is the running equity of the first hand.
func (t *tally) heroEstimate() float64 {
	if t.trials == 0 {
		return 0
	}
	return (float64(t.wins[0]) + float64(t.heroTies)/float64(len(t.wins))) / float64(t.trials)
}

// validate checks hand and board shapes and returns the dead cards.
func validate(hands [][]poker.Card, board []poker.Card) (poker.CardSet, error) {
	var dead poker.CardSet
	claim := func(c poker.Card, where string) error {
		if !c.Valid() {
			return fmt.Errorf("%s: %w", where, &poker.ParseError{Token: c.String(), Reason: "not a card"})
		}
		if dead.Contains(c) {
			return fmt.Errorf("%s: %w: %s", where, ErrDuplicateCard, c)
		}
		dead.Add(c)
		return nil
	}

	for i, h := range hands {
		if len(h) != 2 {
			return 0, fmt.Errorf("hand %d has %d cards: %w", i, len(h), ErrInvalidHoleCards)
		}
		for _, c := range h {
			if err := claim(c, fmt.Sprintf("hand %d", i)); err != nil {
				return 0, err
			}
		}
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return 0, fmt.Errorf("board has %d cards: %w", len(board), ErrInvalidBoard)
	}
	for _, c := range board {
		if err := claim(c, "board"); err != nil {
			return 0, err
		}
	}
	if poker.DeckSize-dead.Count() < 5-len(board) {
		return 0, ErrNotEnoughCards
	}
	return dead, nil
}

// simulate runs the trials for hands over board. With a complete board it
// evaluates once. Cancelling ctx stops every worker like convergence does;
// the partial tally is returned with the context error.
func simulate(ctx context.Context, eval *poker.Evaluator, hands [][]poker.Card, board []poker.Card, cfg Config) (tally, error) {
	dead, err := validate(hands, board)
	if err != nil {
		return tally{}, err
	}
	if eval == nil {
		eval = poker.DefaultEvaluator()
	}
	// AfterFunc runs asynchronously for a context that is already done.
	if err := ctx.Err(); err != nil {
		return newTally(len(hands)), err
	}

	if len(board) == 5 {
		t := newTally(len(hands))
		ranks := make([]poker.HandRank, len(hands))
		for i, h := range hands {
			ranks[i] = eval.Evaluate7(sevenCards(h, board))
		}
		t.record(ranks)
		t.converged = true
		t.exact = true
		return t, nil
	}

	cfg = cfg.withDefaults()
	needed := 5 - len(board)
	perWorker := cfg.Trials / cfg.Workers
	interval := max(1, cfg.CheckInterval/cfg.Workers)

	var stop, converged atomic.Bool
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()

	results := make([]tally, cfg.Workers)
	var g errgroup.Group
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			rng := randutil.ForWorker(cfg.Seed, w)
			deck := poker.NewDeckWithout(rng, dead)

			players := make([][7]poker.Card, len(hands))
			for i, h := range hands {
				players[i] = sevenCards(h, board)
			}
			ranks := make([]poker.HandRank, len(hands))

			local := newTally(len(hands))
			prev := 0.5
			for n := 0; n < perWorker; n++ {
				if stop.Load() {
					break
				}
				deck.ShufflePartial(needed)
				drawn := deck.Deal(needed)
				for i := range players {
					copy(players[i][2+len(board):], drawn)
					ranks[i] = eval.Evaluate7(players[i])
				}
				local.record(ranks)

				if w == 0 && cfg.ConvergenceThreshold > 0 && local.trials%interval == 0 {
					est := local.heroEstimate()
					if math.Abs(est-prev) < cfg.ConvergenceThreshold {
						converged.Store(true)
						stop.Store(true)
					}
					prev = est
				}
			}
			results[w] = local
			return nil
		})
	}
	_ = g.Wait()

	total := newTally(len(hands))
	for _, r := range results {
		total.add(r)
	}
	total.converged = converged.Load()
	return total, ctx.Err()
}

// sevenCards lays out hole cards followed by the known board. Unknown board
// slots are filled per trial.
func sevenCards(hole, board []poker.Card) [7]poker.Card {
	var out [7]poker.Card
	copy(out[:2], hole)
	copy(out[2:], board)
	return out
}
