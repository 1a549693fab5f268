// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hostutil provides the small set of host-environment helpers
// the pools fall back to: worker-count defaulting and the default
// producer back-off used by the lock-free pool's submit-with-retry path.
package hostutil

import (
	"runtime"
	"time"

	"github.com/zoobzio/clockz"
)

// CPUCount returns the number of logical CPUs available to the process,
// the default worker count when a caller passes workers <= 0. This has
// no third-party equivalent worth wiring in place of the standard
// library: runtime.NumCPU is the canonical source of this number in Go,
// and go.uber.org/automaxprocs (wired in cmd/thpool-bench) solves the
// adjacent but distinct problem of making GOMAXPROCS itself reflect a
// container's CPU quota.
func CPUCount() int {
	return runtime.NumCPU()
}

// Sleeper is the producer back-off hook a lock-free pool calls between
// retries of AddTaskTry. It mirrors the original library's
// sleep_func(useconds_t) hook.
type Sleeper func(usec int)

// DefaultSleep yields the current goroutine's timeslice and then sleeps
// for usec microseconds, sourced from clock (nil uses the real clock).
// This mirrors the original's sched_yield()+usleep() default.
func DefaultSleep(clock clockz.Clock) Sleeper {
	if clock == nil {
		clock = clockz.RealClock
	}
	return func(usec int) {
		runtime.Gosched()
		if usec <= 0 {
			return
		}
		<-clock.After(time.Duration(usec) * time.Microsecond)
	}
}
