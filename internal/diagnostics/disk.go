package diagnostics

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/disk"
)

// DiskCollector samples disk usage on the root filesystem, where the
// monitor's state files and logs accumulate.
type DiskCollector struct {
	Logger zerolog.Logger
}

func (d *DiskCollector) Name() string {
	return "disk"
}

func (d *DiskCollector) Collect(ctx context.Context) interface{} {
	stats, err := disk.Usage("/")
	if err != nil {
		d.Logger.Error().Err(err).Msg("Failed to read disk usage")
		return nil
	}
	return &stats.UsedPercent
}

func (d *DiskCollector) Unit() string {
	return "percentage"
}

func (d *DiskCollector) Description() string {
	return "Percentage of disk space used on the root filesystem."
}
