package diagnostics

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
)

// GoroutineCollector samples the number of active goroutines. A steadily
// climbing count means a poll loop is leaking.
type GoroutineCollector struct {
	Logger zerolog.Logger
}

// Name returns the identifier for the goroutine collector.
func (g *GoroutineCollector) Name() string {
	return "goroutines"
}

// Collect retrieves the number of active goroutines.
func (g *GoroutineCollector) Collect(ctx context.Context) interface{} {
	n := float64(runtime.NumGoroutine())
	return &n
}

// Unit specifies the unit for the goroutine count.
func (g *GoroutineCollector) Unit() string {
	return "count"
}

// Description provides a summary of the goroutine reading.
func (g *GoroutineCollector) Description() string {
	return "Number of active goroutines in the runtime."
}
