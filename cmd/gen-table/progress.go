package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/coder/quartz"
)

const progressDots = 40

// ProgressMonitor prints a row of dots as table entries are written,
// followed by a throughput summary.
type ProgressMonitor struct {
	mu          sync.Mutex
	clock       quartz.Clock
	out         io.Writer
	dotsPrinted int
	startTime   time.Time
}

// NewProgressMonitor creates a progress monitor that starts timing now.
func NewProgressMonitor(out io.Writer, clock quartz.Clock) *ProgressMonitor {
	return &ProgressMonitor{
		clock:     clock,
		out:       out,
		startTime: clock.Now(),
	}
}

// Update records that done of total entries have been written. It matches
// the poker.GenerateOptions Progress signature.
func (m *ProgressMonitor) Update(done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if total <= 0 {
		return
	}
	pct := min(done*100/total, 100)
	targetDots := (pct * progressDots) / 100

	for i := m.dotsPrinted; i < targetDots; i++ {
		fmt.Fprint(m.out, ".")
		m.dotsPrinted++
	}

	if done >= total {
		fmt.Fprint(m.out, "\n")
	}
}

// Elapsed returns the time since the monitor was created.
func (m *ProgressMonitor) Elapsed() time.Duration {
	return m.clock.Since(m.startTime)
}

// PrintSummary prints the final summary
func (m *ProgressMonitor) PrintSummary(entries int) {
	duration := m.Elapsed()
	perSec := float64(entries)
	if duration > 0 {
		perSec = float64(entries) / duration.Seconds()
	}

	fmt.Fprintf(m.out, "✅ Wrote %d entries in %.1fs (%.0f hands/sec)\n",
		entries, duration.Seconds(), perSec)
}
