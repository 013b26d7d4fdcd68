package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokermath/equity"
	"github.com/lox/pokermath/internal/api"
	"github.com/lox/pokermath/internal/cache"
	"github.com/lox/pokermath/internal/config"
	"github.com/lox/pokermath/poker"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"equity-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Table    string `long:"table" env:"POKERMATH_TABLE" help:"Path to the seven card lookup table (overrides config)"`
	Redis    string `long:"redis" help:"Redis address for the result cache (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Table != "" {
		cfg.Engine.TablePath = CLI.Table
	}
	if CLI.Redis != "" {
		cfg.Cache.RedisAddr = CLI.Redis
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		ctx.Exit(1)
	}

	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := newServer(sigCtx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start", "error", err)
		ctx.Exit(1)
	}
	defer cleanup()

	addr := cfg.GetServerAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}
	if err := srv.Start(sigCtx, addr); err != nil {
		logger.Error("Server error", "error", err)
		ctx.Exit(1)
	}
	logger.Info("Server stopped")
}

// newServer wires the evaluator, optional cache and engine from cfg. The
// cleanup func releases the table and cache connection.
func newServer(ctx context.Context, cfg *config.Config, logger *log.Logger) (*api.Server, func(), error) {
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	eval := poker.DefaultEvaluator()
	if cfg.Engine.TablePath != "" {
		table, err := poker.LoadLookupTable(cfg.Engine.TablePath)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, table.Close)
		eval = poker.NewEvaluator(table)
	}
	logger.Info("Evaluator ready", "lookup_table", eval.HasTable(), "vectorized", poker.HasVectorSupport())

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, cleanup, err
	}
	opts := api.Options{
		Clock:     quartz.NewReal(),
		Timeout:   timeout,
		MaxTrials: cfg.Server.MaxTrials,
	}

	if cfg.Cache.RedisAddr != "" {
		ttl, err := cfg.CacheTTL()
		if err != nil {
			return nil, cleanup, err
		}
		rc, err := cache.Dial(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, ttl)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, rc.Close)
		opts.Cache = rc
		logger.Info("Result cache enabled", "redis", cfg.Cache.RedisAddr, "ttl", ttl)
	}

	engine := equity.NewEngine(eval, cfg.EquityConfig(), logger)
	return api.NewServer(engine, logger, opts), cleanup, nil
}
