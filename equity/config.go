package equity

import "runtime"

// Config tunes a Monte Carlo run.
type Config struct {
	// Trials is the number of simulated boards requested.
	Trials int
	// ConvergenceThreshold stops the run early once the hero equity estimate
	// moves by less than this between checks. Zero disables early stopping.
	ConvergenceThreshold float64
	// CheckInterval is the number of trials between convergence checks.
	CheckInterval int
	// Workers is the number of parallel workers. Zero uses every CPU.
	Workers int
	// Seed is the base seed each worker's stream is derived from.
	Seed int64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Trials:               100_000,
		ConvergenceThreshold: 0.001,
		CheckInterval:        10_000,
	}
}

// withDefaults fills zero fields and resolves the worker count.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Trials <= 0 {
		c.Trials = def.Trials
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = def.CheckInterval
	}
	if c.ConvergenceThreshold < 0 {
		c.ConvergenceThreshold = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Workers > c.Trials {
		c.Workers = c.Trials
	}
	return c
}
