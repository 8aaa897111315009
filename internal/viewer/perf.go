package viewer

import (
	"runtime"
	"time"
)

// PerfInterval is how often PerfMonitor refreshes its slow metrics.
const PerfInterval = 500 * time.Millisecond

// PerfStats is a snapshot of the performance monitor.
type PerfStats struct {
	FPS         float64
	FrameTime   time.Duration
	FrameCount  uint64
	HeapAlloc   uint64 // Bytes, refreshed every PerfInterval
	HeapObjects uint64
}

// PerfMonitor tracks frame time and a smoothed frame rate.
type PerfMonitor struct {
	interval   time.Duration
	lastFrame  time.Time
	lastUpdate time.Time
	stats      PerfStats
	readMem    func(*runtime.MemStats)
}

// NewPerfMonitor starts a monitor at now.
func NewPerfMonitor(now time.Time) *PerfMonitor {
	return &PerfMonitor{
		interval:   PerfInterval,
		lastFrame:  now,
		lastUpdate: now,
		readMem:    runtime.ReadMemStats,
	}
}

// Frame records a frame ending at now. It reports true once per interval,
// after the memory figures were refreshed; callers log on true.
func (p *PerfMonitor) Frame(now time.Time) bool {
	dt := now.Sub(p.lastFrame)
	p.lastFrame = now
	p.stats.FrameTime = dt
	p.stats.FrameCount++

	// Exponential moving average, starting from zero
	if dt > 0 {
		p.stats.FPS = p.stats.FPS*0.9 + (1/dt.Seconds())*0.1
	}

	if now.Sub(p.lastUpdate) < p.interval {
		return false
	}
	var ms runtime.MemStats
	p.readMem(&ms)
	p.stats.HeapAlloc = ms.HeapAlloc
	p.stats.HeapObjects = ms.HeapObjects
	p.lastUpdate = now
	return true
}

// Stats returns the current snapshot.
func (p *PerfMonitor) Stats() PerfStats {
	return p.stats
}
