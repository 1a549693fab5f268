// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thpool

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/thpool/internal/hostutil"
	"code.hybscloud.com/thpool/internal/ring"
)

// LFP is a lock-free worker pool: a bounded MPMC ring queue of Task plus
// a handful of atomics for its hold/shutdown/running state. No mutex or
// condvar guards the hot submit/dequeue path; idle workers and Wait
// back off via an injectable sleep hook instead of blocking on a
// condition variable.
type LFP struct {
	queue   *ring.MPMC[Task]
	sleepFn hostutil.Sleeper

	running   atomix.Int64
	hold      atomix.Bool
	shutdown  atomix.Bool
	destroyed atomix.Int64

	workerCount int
	wg          sync.WaitGroup
}

// NewLFP creates a lock-free pool with the given number of workers and
// a bounded task queue of the given size (rounded up to the next power
// of two). workers <= 0 defaults to the host's logical CPU count.
// queueSize must be at least 2.
func NewLFP(workers, queueSize int) (*LFP, error) {
	return NewLFPScheduled(workers, queueSize, nil)
}

// NewLFPScheduled is NewLFP with an injectable back-off hook, letting
// tests and benchmarks control or measure the pool's idle/retry
// behavior instead of always sleeping on the real clock.
func NewLFPScheduled(workers, queueSize int, sleepFn hostutil.Sleeper) (*LFP, error) {
	if queueSize < 2 {
		return nil, ErrInvalidArgument
	}
	if workers < 1 {
		workers = hostutil.CPUCount()
		if workers < 1 {
			workers = 1
		}
	}
	if sleepFn == nil {
		sleepFn = hostutil.DefaultSleep(nil)
	}

	p := &LFP{
		queue:       ring.NewMPMC[Task](queueSize),
		sleepFn:     sleepFn,
		workerCount: workers,
	}

	p.wg.Add(workers)
	for range workers {
		go p.workerLoop()
	}
	return p, nil
}

// Workers returns the number of worker goroutines backing the pool.
func (p *LFP) Workers() int {
	return p.workerCount
}

// State reports the pool's current lifecycle position.
func (p *LFP) State() State {
	if p.destroyed.LoadAcquire() != 0 {
		return Destroyed
	}
	if p.shutdown.LoadAcquire() {
		return ShuttingDown
	}
	if p.hold.LoadAcquire() {
		return Held
	}
	return Running
}

// AddTask makes a single attempt to enqueue fn. It returns ErrShutdown
// once the pool has begun shutting down, and ErrQueueFull if the ring
// is full.
func (p *LFP) AddTask(fn Task) error {
	if p.shutdown.LoadAcquire() {
		return ErrShutdown
	}
	if err := p.queue.Enqueue(&fn); err != nil {
		return ErrQueueFull
	}
	return nil
}

// AddTaskTry retries enqueuing fn, backing off usec microseconds
// between attempts via the pool's sleep hook, until it succeeds, maxTry
// is exhausted (returning ErrAgain), or the pool shuts down (returning
// ErrShutdown). A maxTry of 0 allows exactly one retry after the
// initial attempt.
func (p *LFP) AddTaskTry(fn Task, usec int, maxTry int) error {
	for {
		if p.shutdown.LoadAcquire() {
			return ErrShutdown
		}

		err := p.queue.Enqueue(&fn)
		if err == nil {
			return nil
		}
		if !ring.IsWouldBlock(err) {
			return err
		}
		if maxTry < 0 {
			return ErrAgain
		}
		p.sleepFn(usec)
		maxTry--
	}
}

// Pause stops workers from dequeuing new tasks. Tasks already in
// flight finish normally; queued tasks accumulate until Resume.
func (p *LFP) Pause() {
	p.hold.StoreRelease(true)
}

// Resume un-pauses a paused pool.
func (p *LFP) Resume() {
	p.hold.StoreRelease(false)
}

// ActiveTasks returns the number of tasks currently executing.
func (p *LFP) ActiveTasks() int {
	return int(p.running.LoadRelaxed())
}

// TotalTasks returns the number of tasks either executing or queued.
// The queued portion is advisory: LenRelaxed may transiently over- or
// under-count under concurrent mutation.
func (p *LFP) TotalTasks() int {
	return int(p.running.LoadRelaxed()) + p.queue.LenRelaxed()
}

// Wait blocks, polling with the pool's sleep hook, until the queue is
// empty and no task is executing.
func (p *LFP) Wait() {
	for {
		if p.running.LoadRelaxed() > 0 || p.queue.LenRelaxed() > 0 {
			p.sleepFn(10)
			continue
		}
		// An acquire re-load closes the window where a worker has
		// claimed a task from the ring but has not yet incremented
		// running: a plain relaxed read just above could observe both
		// counters as zero in between those two steps.
		if p.running.LoadAcquire() > 0 || p.queue.LenRelaxed() > 0 {
			p.sleepFn(10)
			continue
		}
		return
	}
}

// WorkerTryOnce dequeues and runs exactly one queued task on the
// caller's goroutine, ignoring Pause and Shutdown state. It returns
// ErrAgain if the queue is empty. This is the manual-drain escape hatch
// for forcing progress outside the normal worker loop.
func (p *LFP) WorkerTryOnce() error {
	fn, err := p.queue.Dequeue()
	if err != nil {
		return ErrAgain
	}

	p.running.AddAcqRel(1)
	fn()
	p.running.AddAcqRel(-1)
	return nil
}

func (p *LFP) workerLoop() {
	defer p.wg.Done()
	for {
		if p.shutdown.LoadAcquire() {
			return
		}
		if p.hold.LoadAcquire() {
			time.Sleep(time.Second)
			continue
		}

		fn, err := p.queue.Dequeue()
		if err != nil {
			p.sleepFn(1)
			continue
		}

		p.running.AddAcqRel(1)
		fn()
		p.running.AddAcqRel(-1)
	}
}

// Shutdown stops accepting new work in the sense that AddTask and
// AddTaskTry start returning ErrShutdown, and blocks until every worker
// goroutine observes the shutdown flag and returns.
func (p *LFP) Shutdown() {
	p.shutdown.StoreRelease(true)
	p.wg.Wait()
}

// Destroy shuts the pool down if it has not already been, drains and
// discards any tasks left in the queue, and marks the pool destroyed.
// Calling Destroy more than once panics.
func (p *LFP) Destroy() {
	if !p.destroyed.CompareAndSwapAcqRel(0, 1) {
		panic("thpool: pool already destroyed")
	}
	p.Shutdown()
	p.queue.Delete(nil)
}
