// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hostutil_test

import (
	"testing"
	"time"

	"code.hybscloud.com/thpool/internal/hostutil"
)

func TestCPUCountPositive(t *testing.T) {
	if hostutil.CPUCount() < 1 {
		t.Fatalf("CPUCount() = %d, want >= 1", hostutil.CPUCount())
	}
}

func TestDefaultSleepHonorsDuration(t *testing.T) {
	sleep := hostutil.DefaultSleep(nil)
	start := time.Now()
	sleep(5000)
	if time.Since(start) < 2*time.Millisecond {
		t.Fatal("DefaultSleep returned suspiciously fast")
	}
}

func TestDefaultSleepZeroDoesNotBlockOnTimer(t *testing.T) {
	sleep := hostutil.DefaultSleep(nil)
	done := make(chan struct{})
	go func() {
		sleep(0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DefaultSleep(0) blocked")
	}
}
