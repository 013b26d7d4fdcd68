package equity

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokermath/poker"
)

// Engine runs equity calculations with a fixed evaluator and default tuning.
// It is safe for concurrent use.
type Engine struct {
	eval   *poker.Evaluator
	cfg    Config
	logger *log.Logger
}

// NewEngine creates an engine. A nil evaluator uses poker.DefaultEvaluator and
// a nil logger uses the package default.
func NewEngine(eval *poker.Evaluator, cfg Config, logger *log.Logger) *Engine {
	if eval == nil {
		eval = poker.DefaultEvaluator()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{eval: eval, cfg: cfg, logger: logger.WithPrefix("equity")}
}

// Config returns the engine's default tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluator returns the evaluator the engine simulates with.
func (e *Engine) Evaluator() *poker.Evaluator {
	return e.eval
}

// Calculate estimates hero equity against villains given a board of 0, 3, 4
// or 5 cards. A complete board is resolved exactly in a single trial.
func (e *Engine) Calculate(ctx context.Context, hero []poker.Card, villains [][]poker.Card, board []poker.Card) (Result, error) {
	return e.CalculateWith(ctx, hero, villains, board, e.cfg)
}

// CalculateWith is Calculate with explicit tuning.
func (e *Engine) CalculateWith(ctx context.Context, hero []poker.Card, villains [][]poker.Card, board []poker.Card, cfg Config) (Result, error) {
	start := time.Now()
	res, err := calculate(ctx, e.eval, hero, villains, board, cfg)
	if err != nil {
		e.logger.Debug("calculation failed", "hero", poker.FormatCards(hero), "error", err)
		return res, err
	}
	e.logger.Debug("calculation complete",
		"hero", poker.FormatCards(hero),
		"villains", len(villains),
		"board", poker.FormatCards(board),
		"simulations", res.Simulations,
		"converged", res.ConvergedEarly,
		"elapsed", time.Since(start))
	return res, nil
}

// CalculateMultiway estimates the equity of every hand against all others.
func (e *Engine) CalculateMultiway(ctx context.Context, hands [][]poker.Card, board []poker.Card, cfg Config) (MultiwayResult, error) {
	start := time.Now()
	res, err := calculateMultiway(ctx, e.eval, hands, board, cfg)
	if err != nil {
		return res, err
	}
	e.logger.Debug("multiway calculation complete",
		"hands", len(hands),
		"simulations", res.Simulations,
		"elapsed", time.Since(start))
	return res, nil
}

// Query is a calculation request in card notation.
type Query struct {
	Hero     string   `json:"hero_cards"`
	Villains []string `json:"villain_cards"`
	Board    string   `json:"board,omitempty"`
	// Trials overrides the engine's trial count when positive.
	Trials int `json:"iterations,omitempty"`
}

// Parsed holds a query's cards.
type Parsed struct {
	Hero     []poker.Card
	Villains [][]poker.Card
	Board    []poker.Card
}

// Parse converts the query's card notation.
func (q Query) Parse() (Parsed, error) {
	var p Parsed
	var err error
	if p.Hero, err = poker.ParseCards(q.Hero); err != nil {
		return p, fmt.Errorf("hero: %w", err)
	}
	for i, v := range q.Villains {
		cards, err := poker.ParseCards(v)
		if err != nil {
			return p, fmt.Errorf("villain %d: %w", i, err)
		}
		p.Villains = append(p.Villains, cards)
	}
	if p.Board, err = poker.ParseCards(q.Board); err != nil {
		return p, fmt.Errorf("board: %w", err)
	}
	return p, nil
}

// Run parses and calculates a query.
func (e *Engine) Run(ctx context.Context, q Query) (Result, error) {
	p, err := q.Parse()
	if err != nil {
		return InvalidResult(), err
	}
	cfg := e.cfg
	if q.Trials > 0 {
		cfg.Trials = q.Trials
	}
	return e.CalculateWith(ctx, p.Hero, p.Villains, p.Board, cfg)
}

// RunMultiway parses and calculates an all-versus-all query.
func (e *Engine) RunMultiway(ctx context.Context, hands []string, board string, trials int) (MultiwayResult, error) {
	parsed := make([][]poker.Card, 0, len(hands))
	for i, h := range hands {
		cards, err := poker.ParseCards(h)
		if err != nil {
			return MultiwayResult{StandardError: 1.0}, fmt.Errorf("hand %d: %w", i, err)
		}
		parsed = append(parsed, cards)
	}
	b, err := poker.ParseCards(board)
	if err != nil {
		return MultiwayResult{StandardError: 1.0}, fmt.Errorf("board: %w", err)
	}
	cfg := e.cfg
	if trials > 0 {
		cfg.Trials = trials
	}
	return e.CalculateMultiway(ctx, parsed, b, cfg)
}

// SweepRow is one line of a batch sweep. Rows that could not be calculated
// carry InvalidResult and the reason.
type SweepRow struct {
	Query  Query
	Result Result
	Err    error
}

// Sweep calculates queries in order. A bad row never aborts the sweep; only
// context cancellation stops it early, leaving the remaining rows invalid.
func (e *Engine) Sweep(ctx context.Context, queries []Query) []SweepRow {
	rows := make([]SweepRow, len(queries))
	for i, q := range queries {
		rows[i].Query = q
		if err := ctx.Err(); err != nil {
			rows[i].Result, rows[i].Err = InvalidResult(), err
			continue
		}
		res, err := e.Run(ctx, q)
		if err != nil {
			e.logger.Warn("skipping sweep row", "row", i, "error", err)
			res = InvalidResult()
		}
		rows[i].Result, rows[i].Err = res, err
	}
	return rows
}
