// package profiler tracks evaluation rate and memory statistics for a stage
// advancing in a loop. Stats go to the module logger at a configurable
// interval.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/rig-go/common"
)

// Profiler accumulates per-frame counters and periodically reports frame
// rate, heap usage, allocation rate, and GC pauses. Allocation rate matters
// here: the skinning and sampling hot paths are meant to run allocation-free,
// so a nonzero steady-state rate points at a regression.
type Profiler struct {
	frameCount     int
	actorFrames    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a profiler that reports once per second.
//
// Returns:
//   - *Profiler: the profiler
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick records one evaluated frame and logs a report when the update
// interval has elapsed.
//
// Parameters:
//   - actors: how many actors the frame evaluated
//
// Returns:
//   - bool: true if a report was logged this tick
func (p *Profiler) Tick(actors int) bool {
	p.frameCount++
	p.actorFrames += actors
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	common.Logger().Info("frame stats",
		"fps", fps,
		"actor_frames", p.actorFrames,
		"heap_mb", float64(p.memStats.Alloc)/1024/1024,
		"alloc_rate_mb_s", allocRateMB,
		"gc_count", gcCount,
		"gc_last_pause_us", lastPauseUs,
		"gc_max_pause_us", maxPauseUs,
		"sys_mb", float64(p.memStats.Sys)/1024/1024,
	)

	p.frameCount = 0
	p.actorFrames = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
