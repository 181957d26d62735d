package diagnostics

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/mem"
)

// MemoryCollector samples the percentage of used virtual memory.
type MemoryCollector struct {
	Logger zerolog.Logger
}

// Name returns the identifier for the memory collector.
func (m *MemoryCollector) Name() string {
	return "memory"
}

// Collect retrieves the percentage of used virtual memory.
func (m *MemoryCollector) Collect(ctx context.Context) interface{} {
	stats, err := mem.VirtualMemory()
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to read memory statistics")
		return nil
	}

	return &stats.UsedPercent
}

// Unit specifies the unit for the memory reading.
func (m *MemoryCollector) Unit() string {
	return "percentage"
}

// Description provides details of the memory reading.
func (m *MemoryCollector) Description() string {
	return "Percentage of used virtual memory."
}
