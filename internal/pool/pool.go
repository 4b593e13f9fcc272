// Package pool implements the "map(func, tasks) -> results" strategy the
// codec dispatches per-block embed/extract work through (spec §4.5
// Parallelism, §5, §9). Serial, threaded, process, and vectorised are
// strategy choices, not concurrency primitives: callers never await
// individual tasks, and results always come back indexed by task
// position regardless of completion order, so the embedded image is
// bit-exact no matter which mode ran it.
package pool

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Mode selects the execution strategy for Map.
type Mode int

const (
	// ModeSerial runs tasks in-process, in order.
	ModeSerial Mode = iota
	// ModeThreaded runs tasks across a fixed-size goroutine pool.
	ModeThreaded
	// ModeProcess requests fork-based isolation; Go has no supported
	// fork-after-start primitive, so this degrades to ModeThreaded with
	// a one-time warning, per spec §9's note that process mode on
	// platforms lacking fork must degrade to threaded with a warning
	// surface.
	ModeProcess
	// ModeVectorised is reserved for batched-array implementations; it
	// behaves identically to ModeSerial.
	ModeVectorised
)

func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeThreaded:
		return "threaded"
	case ModeProcess:
		return "process"
	case ModeVectorised:
		return "vectorised"
	default:
		return "unknown"
	}
}

// ParseMode maps a config string to a Mode, defaulting to ModeThreaded
// for unrecognised values.
func ParseMode(s string) Mode {
	switch s {
	case "serial":
		return ModeSerial
	case "process":
		return ModeProcess
	case "vectorised", "vectorized":
		return ModeVectorised
	default:
		return ModeThreaded
	}
}

var processModeWarnOnce sync.Once

// Map applies fn to every task and returns results indexed by task
// position. The block codec is pure and each invocation reads and
// writes a disjoint region of channel state, so no synchronization
// beyond the result slice's per-index writes is required (spec §5:
// "results must be indexed by the block linear index, not by
// completion order").
func Map[T any, R any](mode Mode, workers int, tasks []T, fn func(T) R) []R {
	results := make([]R, len(tasks))

	switch mode {
	case ModeSerial, ModeVectorised:
		for i, t := range tasks {
			results[i] = fn(t)
		}
		return results

	case ModeProcess:
		processModeWarnOnce.Do(func() {
			slog.Warn("pool: process mode requested but unsupported on this runtime, degrading to threaded",
				"run_id", uuid.NewString())
		})
		fallthrough

	case ModeThreaded:
		runThreaded(workers, tasks, fn, results)
		return results

	default:
		for i, t := range tasks {
			results[i] = fn(t)
		}
		return results
	}
}

func runThreaded[T any, R any](workers int, tasks []T, fn func(T) R, results []R) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}
	if workers <= 1 {
		for i, t := range tasks {
			results[i] = fn(t)
		}
		return
	}

	var wg sync.WaitGroup
	indices := make(chan int)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = fn(tasks[i])
			}
		}()
	}
	for i := range tasks {
		indices <- i
	}
	close(indices)
	wg.Wait()
}
