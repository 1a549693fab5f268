// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sema

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
	"github.com/zoobzio/clockz"
)

// LSem is a lightweight semaphore: an atomic counter fast path backed by
// a USem slow path. Under low contention, signal/wait never touches the
// slow path at all.
//
// Sign convention: a positive count is available permits; a negative
// count is the (negated) number of registered waiters.
type LSem struct {
	count    atomix.Int64
	maxSpins int
	sem      *USem
}

// NewLSem creates a lightweight semaphore with the given initial permit
// count and bounded spin budget before falling back to the OS-semaphore
// slow path.
func NewLSem(initial int, maxSpins int) *LSem {
	s := &LSem{maxSpins: maxSpins, sem: NewUSem(0)}
	s.count.StoreRelaxed(int64(initial))
	return s
}

// TryWait acquires a permit without blocking. It CAS-decrements count
// only while positive.
func (s *LSem) TryWait() bool {
	old := s.count.LoadRelaxed()
	for old > 0 {
		if s.count.CompareAndSwapAcqRel(old, old-1) {
			return true
		}
		old = s.count.LoadRelaxed()
	}
	return false
}

// Wait blocks until a permit is available.
func (s *LSem) Wait() {
	if s.TryWait() {
		return
	}
	s.waitSlow(0, nil)
}

// TimedWait blocks until a permit is available or timeout elapses,
// returning false on timeout. The count is restored so no signal is
// lost when a timeout races with a Signal.
func (s *LSem) TimedWait(timeout time.Duration, clock clockz.Clock) bool {
	if s.TryWait() {
		return true
	}
	return s.waitSlow(timeout, clock)
}

// waitSlow runs the bounded spin, then registers as a blocked waiter and
// defers to the OS-semaphore slow path. timeout <= 0 means block
// indefinitely.
func (s *LSem) waitSlow(timeout time.Duration, clock clockz.Clock) bool {
	sw := spin.Wait{}
	for range s.maxSpins {
		old := s.count.LoadRelaxed()
		if old > 0 && s.count.CompareAndSwapAcqRel(old, old-1) {
			return true
		}
		sw.Once()
	}

	// Unconditionally register as a waiter. If the prior value was
	// already > 0, a permit existed and we just consumed it.
	old := s.count.AddAcqRel(-1) + 1
	if old > 0 {
		return true
	}

	var acquired bool
	if timeout <= 0 {
		s.sem.Wait()
		acquired = true
	} else {
		acquired = s.sem.TimedWait(timeout, clock)
	}
	if acquired {
		return true
	}

	// Timed out. Undo registration without losing a signal that arrived
	// in the race window.
	for {
		old := s.count.LoadAcquire()
		if old >= 0 && s.sem.TryWait() {
			return true
		}
		if old < 0 && s.count.CompareAndSwapRelaxed(old, old+1) {
			return false
		}
	}
}

// Signal releases one permit, waking a blocked waiter if one is
// registered.
func (s *LSem) Signal() {
	s.signalN(1)
}

// SignalCount releases n permits, equivalent to n calls to Signal.
func (s *LSem) SignalCount(n int) {
	if n > 0 {
		s.signalN(int64(n))
	}
}

func (s *LSem) signalN(n int64) {
	old := s.count.AddAcqRel(n) - n
	waiters := -old
	if waiters < 0 {
		waiters = 0
	}
	toRelease := n
	if waiters < toRelease {
		toRelease = waiters
	}
	if toRelease > 0 {
		s.sem.SignalCount(int(toRelease))
	}
}
