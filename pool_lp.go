// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thpool

import (
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/thpool/internal/hostutil"
)

// LP is a lock-based worker pool: a mutex-guarded circular task array
// with two condition variables coordinating producers, workers, and
// Wait callers.
type LP struct {
	mu          sync.Mutex
	notify      *sync.Cond // signaled when a task is queued or hold clears
	notifyEmpty *sync.Cond // signaled when the pool becomes fully idle

	queue      []Task
	head, tail int
	queueCount int

	running   atomix.Int64 // tasks currently executing, outside the lock
	hold      atomix.Bool
	shutdown  atomix.Bool
	destroyed atomix.Int64

	workerCount int
	wg          sync.WaitGroup
}

// New creates a lock-based pool with the given number of workers and a
// bounded task queue of the given size. workers <= 0 defaults to the
// host's logical CPU count. queueSize must be at least 1.
func New(workers, queueSize int) (*LP, error) {
	if queueSize < 1 {
		return nil, ErrInvalidArgument
	}
	if workers < 1 {
		workers = hostutil.CPUCount()
		if workers < 1 {
			workers = 1
		}
	}

	p := &LP{
		queue:       make([]Task, queueSize),
		workerCount: workers,
	}
	p.notify = sync.NewCond(&p.mu)
	p.notifyEmpty = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for range workers {
		go p.workerLoop()
	}
	return p, nil
}

// Workers returns the number of worker goroutines backing the pool.
func (p *LP) Workers() int {
	return p.workerCount
}

// State reports the pool's current lifecycle position.
func (p *LP) State() State {
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
// once the pool has begun shutting down, and ErrQueueFull if the queue
// has no free slot; in the latter case it yields the caller's timeslice
// once, matching the original's sched_yield()-then-fail behavior.
func (p *LP) AddTask(fn Task) error {
	if p.shutdown.LoadAcquire() {
		return ErrShutdown
	}

	p.mu.Lock()
	if p.queueCount == len(p.queue) {
		p.mu.Unlock()
		runtime.Gosched()
		return ErrQueueFull
	}
	p.enqueueLocked(fn)
	p.mu.Unlock()
	return nil
}

// AddTaskTry retries enqueuing fn, sleeping usec microseconds between
// attempts, until it succeeds, maxTry is exhausted (returning ErrAgain),
// or the pool shuts down (returning ErrShutdown). A maxTry of n makes at
// most n+1 attempts; a maxTry of 0 makes a single attempt with no retry.
func (p *LP) AddTaskTry(fn Task, usec int, maxTry int) error {
	sleep := hostutil.DefaultSleep(nil)
	for {
		if p.shutdown.LoadAcquire() {
			return ErrShutdown
		}
		if maxTry < 0 {
			return ErrAgain
		}

		p.mu.Lock()
		if p.queueCount == len(p.queue) {
			p.mu.Unlock()
			sleep(usec)
		} else {
			p.enqueueLocked(fn)
			p.mu.Unlock()
			return nil
		}
		maxTry--
	}
}

// enqueueLocked requires p.mu held and p.queueCount < len(p.queue).
func (p *LP) enqueueLocked(fn Task) {
	p.queue[p.tail] = fn
	p.tail = (p.tail + 1) % len(p.queue)
	p.queueCount++
	p.notify.Signal()
}

// Pause stops workers from dequeuing new tasks. Tasks already in
// flight finish normally; queued tasks accumulate until Resume.
func (p *LP) Pause() {
	p.hold.StoreRelease(true)
}

// Resume un-pauses a paused pool.
func (p *LP) Resume() {
	p.hold.StoreRelease(false)
	p.mu.Lock()
	p.notify.Signal()
	p.mu.Unlock()
}

// ActiveTasks returns the number of tasks currently executing.
func (p *LP) ActiveTasks() int {
	return int(p.running.LoadRelaxed())
}

// TotalTasks returns the number of tasks either executing or queued.
func (p *LP) TotalTasks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.running.LoadRelaxed()) + p.queueCount
}

// Wait blocks until the queue is empty and no task is executing.
func (p *LP) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.queueCount != 0 || p.running.LoadRelaxed() != 0 {
		p.notifyEmpty.Wait()
	}
}

// WorkerTryOnce dequeues and runs exactly one queued task on the
// caller's goroutine, ignoring Pause and Shutdown state. It returns
// ErrAgain if the queue is empty. This is the manual-drain escape hatch
// for forcing progress outside the normal worker loop.
func (p *LP) WorkerTryOnce() error {
	p.mu.Lock()
	if p.queueCount == 0 {
		p.mu.Unlock()
		return ErrAgain
	}
	fn := p.dequeueLocked()
	p.running.AddAcqRel(1)
	p.mu.Unlock()

	fn()

	p.running.AddAcqRel(-1)
	p.mu.Lock()
	if p.queueCount == 0 && p.running.LoadRelaxed() == 0 {
		p.notifyEmpty.Signal()
	}
	p.mu.Unlock()
	return nil
}

// dequeueLocked requires p.mu held and p.queueCount > 0.
func (p *LP) dequeueLocked() Task {
	fn := p.queue[p.head]
	p.queue[p.head] = nil
	p.head = (p.head + 1) % len(p.queue)
	p.queueCount--
	return fn
}

func (p *LP) workerLoop() {
	defer p.wg.Done()
	p.mu.Lock()
	for {
		for p.queueCount == 0 {
			if p.running.LoadRelaxed() == 0 {
				p.notifyEmpty.Signal()
			}
			if p.shutdown.LoadAcquire() {
				p.mu.Unlock()
				return
			}
			p.notify.Wait()
		}

		if p.hold.LoadAcquire() && !p.shutdown.LoadAcquire() {
			p.mu.Unlock()
			time.Sleep(time.Second)
			p.mu.Lock()
			continue
		}

		fn := p.dequeueLocked()
		p.running.AddAcqRel(1)
		p.mu.Unlock()

		fn()

		p.running.AddAcqRel(-1)
		p.mu.Lock()
	}
}

// Shutdown stops accepting new work in the sense that AddTask and
// AddTaskTry start returning ErrShutdown, wakes every idle worker, and
// blocks until all workers have drained the queue and returned.
func (p *LP) Shutdown() {
	p.shutdown.StoreRelease(true)
	p.mu.Lock()
	p.notify.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// Destroy shuts the pool down if it has not already been, and marks it
// destroyed. Calling Destroy more than once panics.
func (p *LP) Destroy() {
	if !p.destroyed.CompareAndSwapAcqRel(0, 1) {
		panic("thpool: pool already destroyed")
	}
	p.Shutdown()
}
