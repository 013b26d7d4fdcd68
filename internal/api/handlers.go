package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lox/pokermath/equity"
	"github.com/lox/pokermath/internal/cache"
	"github.com/lox/pokermath/poker"
)

var (
	errTooManyTrials = errors.New("iterations exceeds server limit")
	errTooManyHands  = fmt.Errorf("at most %d hands are allowed", maxMultiwayHands)
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// EquityResponse is the body of a successful equity calculation.
type EquityResponse struct {
	HeroEquity     float64 `json:"hero_equity"`
	VillainEquity  float64 `json:"villain_equity"`
	HeroWinRate    float64 `json:"hero_win_rate"`
	TieRate        float64 `json:"tie_rate"`
	Simulations    int     `json:"simulations_run"`
	ConvergedEarly bool    `json:"converged_early"`
	StandardError  float64 `json:"standard_error"`
	CILower        float64 `json:"ci_lower"`
	CIUpper        float64 `json:"ci_upper"`
	ElapsedMS      float64 `json:"elapsed_ms"`
	Cached         bool    `json:"cached"`
	RequestID      string  `json:"request_id,omitempty"`
}

// MultiwayRequest asks for every hand's equity against the others.
type MultiwayRequest struct {
	Hands      []string `json:"hands" binding:"required"`
	Board      string   `json:"board"`
	Iterations int      `json:"iterations"`
}

// MultiwayResponse is the body of a successful multiway calculation.
type MultiwayResponse struct {
	Equities       []float64 `json:"equities"`
	Wins           []int     `json:"wins"`
	Ties           int       `json:"ties"`
	Simulations    int       `json:"simulations_run"`
	ConvergedEarly bool      `json:"converged_early"`
	StandardError  float64   `json:"standard_error"`
	ElapsedMS      float64   `json:"elapsed_ms"`
	RequestID      string    `json:"request_id,omitempty"`
}

// EvaluateRequest asks for the rank of 5 to 7 cards, optionally compared
// with a second hand.
type EvaluateRequest struct {
	Cards  string `json:"cards" binding:"required"`
	Versus string `json:"versus,omitempty"`
}

// EvaluateResponse describes a hand rank.
type EvaluateResponse struct {
	Rank       int     `json:"rank"`
	Category   string  `json:"category"`
	Strength   int     `json:"strength"`
	Percentile float64 `json:"percentile"`
	// Comparison is set when versus was given: 1 when cards win, -1 when
	// versus wins, 0 for a tie.
	Comparison *int `json:"comparison,omitempty"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	rank, err := poker.EvaluateString(req.Cards)
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "INVALID_CARDS", err)
		return
	}
	resp := EvaluateResponse{
		Rank:       int(rank),
		Category:   rank.Type().String(),
		Strength:   rank.Strength(),
		Percentile: rank.Percentile(),
	}

	if req.Versus != "" {
		cmp, err := compareHands(req.Cards, req.Versus)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "INVALID_CARDS", err)
			return
		}
		resp.Comparison = &cmp
	}
	c.JSON(http.StatusOK, resp)
}

func compareHands(a, b string) (int, error) {
	ca, err := poker.ParseCards(a)
	if err != nil {
		return 0, err
	}
	cb, err := poker.ParseCards(b)
	if err != nil {
		return 0, fmt.Errorf("versus: %w", err)
	}
	cmp, err := poker.CompareCards(ca, cb)
	if err != nil {
		return 0, fmt.Errorf("versus: %w", err)
	}
	return cmp, nil
}

func (s *Server) handleCalculate(c *gin.Context) {
	var q equity.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	resp, err := s.calculate(c.Request.Context(), q)
	if err != nil {
		status, code := classify(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("calculation failed", "request_id", c.GetString(requestIDKey), "error", err)
		}
		s.errorResponse(c, status, code, err)
		return
	}
	resp.RequestID = c.GetString(requestIDKey)
	c.JSON(http.StatusOK, resp)
}

// calculate runs q under the request timeout, consulting the cache first
// when one is configured.
func (s *Server) calculate(ctx context.Context, q equity.Query) (EquityResponse, error) {
	start := s.clock.Now()

	if q.Trials > s.maxTrials {
		return EquityResponse{}, fmt.Errorf("%w: %d > %d", errTooManyTrials, q.Trials, s.maxTrials)
	}
	parsed, err := q.Parse()
	if err != nil {
		return EquityResponse{}, err
	}
	cfg := s.engine.Config()
	if q.Trials > 0 {
		cfg.Trials = q.Trials
	}

	var key string
	if s.cache != nil {
		key = cache.Key(parsed, cfg)
		res, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("cache read failed", "error", err)
		} else if ok {
			resp := newEquityResponse(res)
			resp.Cached = true
			resp.ElapsedMS = elapsedMS(s.clock.Since(start))
			return resp, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.engine.CalculateWith(ctx, parsed.Hero, parsed.Villains, parsed.Board, cfg)
	if err != nil {
		return EquityResponse{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res); err != nil {
			s.logger.Warn("cache write failed", "error", err)
		}
	}

	resp := newEquityResponse(res)
	resp.ElapsedMS = elapsedMS(s.clock.Since(start))
	return resp, nil
}

func (s *Server) handleMultiway(c *gin.Context) {
	var req MultiwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	start := s.clock.Now()

	err := func() error {
		if len(req.Hands) > maxMultiwayHands {
			return errTooManyHands
		}
		if req.Iterations > s.maxTrials {
			return fmt.Errorf("%w: %d > %d", errTooManyTrials, req.Iterations, s.maxTrials)
		}
		return nil
	}()
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	res, err := s.engine.RunMultiway(ctx, req.Hands, req.Board, req.Iterations)
	if err != nil {
		status, code := classify(err)
		s.errorResponse(c, status, code, err)
		return
	}

	c.JSON(http.StatusOK, MultiwayResponse{
		Equities:       res.Equities(),
		Wins:           res.Wins,
		Ties:           res.Ties,
		Simulations:    res.Simulations,
		ConvergedEarly: res.ConvergedEarly,
		StandardError:  res.StandardError,
		ElapsedMS:      elapsedMS(s.clock.Since(start)),
		RequestID:      c.GetString(requestIDKey),
	})
}

// handleStream upgrades to a WebSocket and answers one equity query per
// text frame. A bad query yields an error frame; the stream stays open.
func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id := c.GetString(requestIDKey)
	s.logger.Debug("stream opened", "request_id", id)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.Warn("stream read failed", "request_id", id, "error", err)
			}
			return
		}

		var q equity.Query
		if err := json.Unmarshal(data, &q); err != nil {
			if err := conn.WriteJSON(ErrorResponse{Error: "INVALID_REQUEST", Message: err.Error(), RequestID: id}); err != nil {
				return
			}
			continue
		}

		var frame any
		resp, err := s.calculate(c.Request.Context(), q)
		if err != nil {
			_, code := classify(err)
			frame = ErrorResponse{Error: code, Message: err.Error(), RequestID: id}
		} else {
			resp.RequestID = id
			frame = resp
		}
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Warn("stream write failed", "request_id", id, "error", err)
			return
		}
	}
}

func newEquityResponse(res equity.Result) EquityResponse {
	lo, hi := res.ConfidenceInterval()
	return EquityResponse{
		HeroEquity:     res.HeroEquity(),
		VillainEquity:  res.VillainEquity(),
		HeroWinRate:    res.HeroWinRate(),
		TieRate:        res.TieRate(),
		Simulations:    res.Simulations,
		ConvergedEarly: res.ConvergedEarly,
		StandardError:  res.StandardError,
		CILower:        lo,
		CIUpper:        hi,
	}
}
