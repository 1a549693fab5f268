// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package thpool provides a worker-pool runtime for dispatching
// short-lived, fire-and-forget compute tasks across a fixed set of
// worker goroutines.
//
// Two pool variants share the same public contract:
//
//   - LP: a lock-based pool using a mutex-guarded circular task array
//     and condition variables.
//   - LFP: a lock-free pool using a bounded MPMC lock-free ring queue
//     ([code.hybscloud.com/thpool/internal/ring]) and a configurable
//     yielding back-off.
//
// # Quick Start
//
//	pool, err := thpool.New(4, 1024) // lock-based, 4 workers
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Destroy()
//
//	var counter atomic.Int64
//	for range 100 {
//	    err := pool.AddTask(func() { counter.Add(1) })
//	    if thpool.IsWouldBlock(err) {
//	        // queue full, handle backpressure
//	    }
//	}
//	pool.Wait()
//
// LFP is constructed the same way:
//
//	pool, err := thpool.NewLFP(4, 1024)
//
// # Task lifetime
//
// A [Task] is a single-shot, movable closure. The pool takes ownership
// of it on submission and drops its reference once the call returns.
// Anything the closure captures by reference must remain valid for the
// task's lifetime — the submitter's responsibility, exactly as the
// original library's raw argument pointer was.
//
// # Pause, drain, shutdown
//
// Pause stops workers from dequeuing new tasks without losing already
// queued ones; Resume un-pauses. WorkerTryOnce processes exactly one
// queued task regardless of pause or shutdown state — it is the escape
// hatch a caller uses to force progress manually. Shutdown stops intake
// and joins every worker; Destroy shuts the pool down first if that has
// not happened yet, and may not be called twice.
package thpool
