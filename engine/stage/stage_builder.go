package stage

import "github.com/Carmen-Shannon/rig-go/engine/profiler"

// StageOption configures a stage at construction.
type StageOption func(*stage)

// WithWorkers overrides the worker pool size used for parallel actor
// evaluation.
//
// Parameters:
//   - n: worker count, clamped to at least 1
//
// Returns:
//   - StageOption: the option to apply
func WithWorkers(n int) StageOption {
	return func(s *stage) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithProfiling attaches a profiler that reports evaluation rate and memory
// stats once per second while Advance runs.
//
// Returns:
//   - StageOption: the option to apply
func WithProfiling() StageOption {
	return func(s *stage) {
		s.prof = profiler.NewProfiler()
	}
}
