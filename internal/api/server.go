// Package api serves the equity engine over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/pokermath/equity"
	"github.com/lox/pokermath/poker"
)

// Cache stores calculated results. *cache.Redis implements it.
type Cache interface {
	Get(ctx context.Context, key string) (equity.Result, bool, error)
	Set(ctx context.Context, key string, res equity.Result) error
}

// Options configures a Server. Zero values pick defaults.
type Options struct {
	Cache     Cache
	Clock     quartz.Clock
	Timeout   time.Duration
	MaxTrials int
}

const (
	defaultTimeout   = 500 * time.Millisecond
	defaultMaxTrials = 1_000_000
	maxMultiwayHands = 10
	requestIDKey     = "request_id"
)

// Server represents the HTTP server
type Server struct {
	engine    *equity.Engine
	cache     Cache
	clock     quartz.Clock
	logger    *log.Logger
	timeout   time.Duration
	maxTrials int
	upgrader  websocket.Upgrader
	router    *gin.Engine
}

// NewServer creates a new server around engine.
func NewServer(engine *equity.Engine, logger *log.Logger, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxTrials <= 0 {
		opts.MaxTrials = defaultMaxTrials
	}

	s := &Server{
		engine:    engine,
		cache:     opts.Cache,
		clock:     opts.Clock,
		logger:    logger.WithPrefix("api"),
		timeout:   opts.Timeout,
		maxTrials: opts.MaxTrials,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	r := gin.New()
	r.Use(gin.Recovery(), cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
	}), s.requestID(), s.accessLog())
	r.GET("/health", s.handleHealth)

	v1 := r.Group("/api/v1")
	v1.POST("/evaluate", s.handleEvaluate)
	v1.POST("/equity/calculate", s.handleCalculate)
	v1.POST("/equity/calculate/multiway", s.handleMultiway)
	v1.GET("/equity/stream", s.handleStream)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting equity server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.clock.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", c.GetString(requestIDKey),
			"elapsed", s.clock.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"lookup_table": s.engine.Evaluator().HasTable(),
		"vectorized":   poker.HasVectorSupport(),
	})
}

// errorResponse writes the standard error body.
func (s *Server) errorResponse(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorResponse{
		Error:     code,
		Message:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	})
}

// classify maps a calculation error to an HTTP status and code.
func classify(err error) (int, string) {
	var perr *poker.ParseError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "SIMULATION_TIMEOUT"
	case errors.As(err, &perr),
		errors.Is(err, equity.ErrInvalidHoleCards),
		errors.Is(err, equity.ErrDuplicateCard),
		errors.Is(err, poker.ErrCardCount):
		return http.StatusBadRequest, "INVALID_CARDS"
	case errors.Is(err, equity.ErrInvalidBoard),
		errors.Is(err, equity.ErrTooFewPlayers),
		errors.Is(err, equity.ErrNotEnoughCards),
		errors.Is(err, errTooManyTrials),
		errors.Is(err, errTooManyHands):
		return http.StatusBadRequest, "INVALID_REQUEST"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func elapsedMS(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
