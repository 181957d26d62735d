package diagnostics

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/net"
)

// LinkRates holds the send/receive rates of the station's network link.
type LinkRates struct {
	InRate  float64 `json:"network_in,omitempty"`  // bytes/sec
	OutRate float64 `json:"network_out,omitempty"` // bytes/sec
}

// NetworkCollector samples network I/O rates. The station polls the backend
// continuously, so a dead link shows up here before anything else.
type NetworkCollector struct {
	Logger zerolog.Logger

	// previous sample, needed to turn counters into rates
	lastIn   uint64
	lastOut  uint64
	lastTime time.Time
}

// Name returns the identifier for the network collector.
func (n *NetworkCollector) Name() string {
	return "network"
}

// Collect retrieves the link send/receive rates. The first sample only
// primes the counters and yields nothing.
func (n *NetworkCollector) Collect(ctx context.Context) interface{} {
	stats, err := net.IOCounters(false)
	if err != nil {
		n.Logger.Error().Err(err).Msg("Failed to read network statistics")
		return nil
	}
	if len(stats) == 0 {
		n.Logger.Warn().Msg("No network statistics available")
		return nil
	}

	curr := stats[0]
	now := time.Now()

	if n.lastTime.IsZero() {
		n.lastIn = curr.BytesRecv
		n.lastOut = curr.BytesSent
		n.lastTime = now
		return nil
	}

	secs := now.Sub(n.lastTime).Seconds()
	if secs <= 0 {
		return nil
	}

	rates := LinkRates{
		InRate:  float64(curr.BytesRecv-n.lastIn) / secs,
		OutRate: float64(curr.BytesSent-n.lastOut) / secs,
	}

	n.lastIn = curr.BytesRecv
	n.lastOut = curr.BytesSent
	n.lastTime = now

	return rates
}

// Unit specifies the unit for the link rate reading.
func (n *NetworkCollector) Unit() string {
	return "bytes per second"
}

// Description provides a summary of the network reading.
func (n *NetworkCollector) Description() string {
	return "Network receive/send rate in bytes per second."
}
