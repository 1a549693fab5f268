// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sema_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/thpool/internal/sema"
)

// TestLSemSignalThenWait is spec scenario 6: a helper goroutine signals
// after a short sleep, the main goroutine signals then waits; both waits
// must succeed with no deadlock.
func TestLSemSignalThenWait(t *testing.T) {
	s := sema.NewLSem(0, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(time.Millisecond)
		s.Signal()
	}()

	s.Signal()
	s.Wait()
	wg.Wait()
	s.Wait()
}

// TestLSemTimeoutFidelity is spec scenario 5: a wait on an empty
// semaphore with a 20ms timeout must fail and return within a bounded
// window around the timeout.
func TestLSemTimeoutFidelity(t *testing.T) {
	s := sema.NewLSem(0, 2)

	start := time.Now()
	ok := s.TimedWait(20*time.Millisecond, nil)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("TimedWait on empty semaphore returned success")
	}
	if elapsed < 13333*time.Microsecond || elapsed > 200*time.Millisecond {
		t.Fatalf("elapsed %v outside [13.333ms, 200ms]", elapsed)
	}
}

func TestLSemTimedWaitSucceedsWhenSignaled(t *testing.T) {
	s := sema.NewLSem(0, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(time.Millisecond)
		s.Signal()
	}()
	if !s.TimedWait(200*time.Millisecond, nil) {
		t.Fatal("TimedWait: expected success")
	}
	wg.Wait()
}

// TestLSemSignalPreservation verifies no signal is dropped: for any
// number of concurrent signals and waits, the number of successful waits
// equals the number of signals that matched a waiter.
func TestLSemSignalPreservation(t *testing.T) {
	s := sema.NewLSem(0, 4)
	const n = 2000

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range n {
			s.Signal()
		}
	}()

	var waited int
	go func() {
		defer wg.Done()
		for range n {
			s.Wait()
			waited++
		}
	}()

	wg.Wait()
	if waited != n {
		t.Fatalf("waited %d times, want %d", waited, n)
	}
}

func TestLSemTryWait(t *testing.T) {
	s := sema.NewLSem(1, 0)
	if !s.TryWait() {
		t.Fatal("TryWait: expected success with 1 permit")
	}
	if s.TryWait() {
		t.Fatal("TryWait: expected failure on empty semaphore")
	}
}

func TestUSemSignalCount(t *testing.T) {
	u := sema.NewUSem(0)
	u.SignalCount(3)
	for range 3 {
		if !u.TryWait() {
			t.Fatal("TryWait: expected permit")
		}
	}
	if u.TryWait() {
		t.Fatal("TryWait: expected no more permits")
	}
}

func TestUSemTimedWaitTimesOut(t *testing.T) {
	u := sema.NewUSem(0)
	start := time.Now()
	ok := u.TimedWait(10*time.Millisecond, nil)
	if ok {
		t.Fatal("TimedWait: expected timeout")
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatal("TimedWait: returned suspiciously fast")
	}
}

func TestPSemSignalWakesWaiter(t *testing.T) {
	p := sema.NewPSem()
	done := make(chan struct{})

	go func() {
		p.Lock()
		defer p.Unlock()
		p.Wait()
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	p.Signal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait never woke up after Signal")
	}
}

func TestPSemBroadcastWakesAllWaiters(t *testing.T) {
	p := sema.NewPSem()
	const waiters = 4
	var wg sync.WaitGroup
	wg.Add(waiters)

	for range waiters {
		go func() {
			defer wg.Done()
			p.Lock()
			defer p.Unlock()
			p.Wait()
		}()
	}

	time.Sleep(10 * time.Millisecond)
	p.Broadcast()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast did not wake all waiters")
	}
}
