// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sema

import (
	"time"

	"github.com/zoobzio/clockz"
)

// maxPermits bounds the backing channel. struct{} elements occupy zero
// storage so this is cheap; it exists only so SignalCount never blocks
// for any realistic waiter count a worker pool could have.
const maxPermits = 1 << 20

// USem is a counting semaphore. It plays the role the original library
// assigns to a host OS semaphore (Mach or POSIX): a blocking primitive
// with no spurious wakeups, used as LSem's slow path once a fast-path
// atomic decrement fails.
//
// Unlike a POSIX semaphore, a Go channel receive can never be
// interrupted by a signal, so there is no analogue to the original's
// "retry on EINTR" behavior — Wait simply blocks until a permit exists.
type USem struct {
	permits chan struct{}
}

// NewUSem creates a semaphore with initial permits available.
func NewUSem(initial int) *USem {
	s := &USem{permits: make(chan struct{}, maxPermits)}
	for range initial {
		s.permits <- struct{}{}
	}
	return s
}

// Wait blocks until a permit is available.
func (s *USem) Wait() {
	<-s.permits
}

// TryWait acquires a permit without blocking. Returns false if none are
// available.
func (s *USem) TryWait() bool {
	select {
	case <-s.permits:
		return true
	default:
		return false
	}
}

// TimedWait blocks until a permit is available or timeout elapses.
// Returns false on timeout. clock is used to source the timeout so
// callers can inject a fake clock in tests; nil uses the real clock.
func (s *USem) TimedWait(timeout time.Duration, clock clockz.Clock) bool {
	if clock == nil {
		clock = clockz.RealClock
	}
	select {
	case <-s.permits:
		return true
	case <-clock.After(timeout):
		return false
	}
}

// Signal releases one permit.
func (s *USem) Signal() {
	s.permits <- struct{}{}
}

// SignalCount releases n permits, equivalent to n calls to Signal.
func (s *USem) SignalCount(n int) {
	for range n {
		s.permits <- struct{}{}
	}
}
