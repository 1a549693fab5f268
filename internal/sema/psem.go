// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sema

import "sync"

// PSem is a trivial condition-variable wrapper. Signal and Broadcast
// each take the lock around the single condvar call; Wait does not take
// the lock itself, the caller holds it via Lock. PSem tracks no
// state of its own — callers must guard their own predicate and expect
// spurious wakeups, exactly like a bare pthread condvar.
type PSem struct {
	mu     sync.Mutex
	notify *sync.Cond
}

// NewPSem creates a ready-to-use condvar semaphore.
func NewPSem() *PSem {
	p := &PSem{}
	p.notify = sync.NewCond(&p.mu)
	return p
}

// Lock acquires the underlying mutex so callers can check their own
// predicate before Wait, the same way pthread_cond_wait callers must.
func (p *PSem) Lock() { p.mu.Lock() }

// Unlock releases the underlying mutex.
func (p *PSem) Unlock() { p.mu.Unlock() }

// Signal wakes one waiter.
func (p *PSem) Signal() {
	p.mu.Lock()
	p.notify.Signal()
	p.mu.Unlock()
}

// Broadcast wakes all waiters.
func (p *PSem) Broadcast() {
	p.mu.Lock()
	p.notify.Broadcast()
	p.mu.Unlock()
}

// Wait blocks on the condition variable. The caller must already hold
// the lock (via Lock) when calling Wait, and holds it again when Wait
// returns — mirroring pthread_cond_wait's contract. Spurious wakeups are
// possible; callers must loop on their own predicate.
func (p *PSem) Wait() {
	p.notify.Wait()
}
