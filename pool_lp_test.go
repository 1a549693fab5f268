// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thpool_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/thpool"
)

func TestLPInvalidArguments(t *testing.T) {
	if _, err := thpool.New(4, 0); !errors.Is(err, thpool.ErrInvalidArgument) {
		t.Fatalf("New with queueSize=0: got %v, want ErrInvalidArgument", err)
	}
}

func TestLPDefaultsWorkersToCPUCount(t *testing.T) {
	p, err := thpool.New(0, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()
	if p.Workers() < 1 {
		t.Fatalf("Workers() = %d, want >= 1", p.Workers())
	}
}

func TestLPBasicDispatch(t *testing.T) {
	p, err := thpool.New(4, 256)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	var count atomic.Int64
	const n = 200
	for range n {
		if err := p.AddTask(func() { count.Add(1) }); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	p.Wait()

	if got := count.Load(); got != n {
		t.Fatalf("count = %d, want %d", got, n)
	}
}

func TestLPAddTaskQueueFull(t *testing.T) {
	p, err := thpool.New(0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()
	p.Pause()

	block := make(chan struct{})
	defer close(block)

	if err := p.AddTask(func() { <-block }); err != nil {
		t.Fatalf("AddTask(1): %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		err := p.AddTask(func() {})
		if err == nil {
			t.Fatal("AddTask on full queue unexpectedly succeeded")
		}
		if thpool.IsWouldBlock(err) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("AddTask never observed a full queue")
}

func TestLPAddTaskTryExhaustsRetries(t *testing.T) {
	p, err := thpool.New(0, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()
	p.Pause()

	block := make(chan struct{})
	defer close(block)
	if err := p.AddTask(func() { <-block }); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	err = p.AddTaskTry(func() {}, 1000, 2)
	if !errors.Is(err, thpool.ErrAgain) {
		t.Fatalf("AddTaskTry: got %v, want ErrAgain", err)
	}
}

func TestLPPauseResume(t *testing.T) {
	p, err := thpool.New(2, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	p.Pause()

	var ran atomic.Bool
	if err := p.AddTask(func() { ran.Store(true) }); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if ran.Load() {
		t.Fatal("task ran while pool was paused")
	}
	if got := p.TotalTasks(); got != 1 {
		t.Fatalf("TotalTasks() = %d, want 1", got)
	}

	p.Resume()
	p.Wait()
	if !ran.Load() {
		t.Fatal("task never ran after Resume")
	}
}

func TestLPWorkerTryOnceIgnoresPauseAndCountsExactlyOnce(t *testing.T) {
	p, err := thpool.New(2, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	p.Pause()

	var count atomic.Int64
	for range 2 {
		if err := p.AddTask(func() { count.Add(1) }); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}

	if err := p.WorkerTryOnce(); err != nil {
		t.Fatalf("WorkerTryOnce(1): %v", err)
	}
	if err := p.WorkerTryOnce(); err != nil {
		t.Fatalf("WorkerTryOnce(2): %v", err)
	}
	if got := count.Load(); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}

	if err := p.WorkerTryOnce(); !errors.Is(err, thpool.ErrAgain) {
		t.Fatalf("WorkerTryOnce on empty queue: got %v, want ErrAgain", err)
	}
}

func TestLPAddTaskAfterShutdownFails(t *testing.T) {
	p, err := thpool.New(2, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Shutdown()
	defer p.Destroy()

	if err := p.AddTask(func() {}); !errors.Is(err, thpool.ErrShutdown) {
		t.Fatalf("AddTask after Shutdown: got %v, want ErrShutdown", err)
	}
	if err := p.AddTaskTry(func() {}, 1000, 3); !errors.Is(err, thpool.ErrShutdown) {
		t.Fatalf("AddTaskTry after Shutdown: got %v, want ErrShutdown", err)
	}
}

func TestLPDestroyTwicePanics(t *testing.T) {
	p, err := thpool.New(1, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Destroy()

	defer func() {
		if recover() == nil {
			t.Fatal("second Destroy did not panic")
		}
	}()
	p.Destroy()
}

func TestLPHighFanIn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	p, err := thpool.New(8, 256)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	var count atomic.Int64
	const n = 50_000
	backoff := iox.Backoff{}
	for range n {
		for {
			err := p.AddTask(func() { count.Add(1) })
			if err == nil {
				break
			}
			if !thpool.IsWouldBlock(err) {
				t.Fatalf("AddTask: %v", err)
			}
			backoff.Wait()
		}
		backoff.Reset()
	}
	p.Wait()

	if got := count.Load(); got != n {
		t.Fatalf("count = %d, want %d", got, n)
	}
}
