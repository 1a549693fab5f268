// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thpool

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrInvalidArgument is returned when a constructor receives an
	// out-of-range argument, such as a queue size below the minimum.
	ErrInvalidArgument = errors.New("thpool: invalid argument")

	// ErrShutdown is returned by AddTask and AddTaskTry once a pool has
	// entered its shutting-down state. It is not retryable.
	ErrShutdown = errors.New("thpool: pool is shutting down")

	// ErrQueueFull is returned by AddTask's single-attempt submission
	// when the task queue has no free slot. It wraps iox.ErrWouldBlock
	// so callers can test it with IsWouldBlock or errors.Is against
	// iox.ErrWouldBlock directly.
	ErrQueueFull = fmt.Errorf("thpool: task queue is full: %w", iox.ErrWouldBlock)

	// ErrAgain is returned by AddTaskTry once its bounded retry budget
	// is exhausted without finding a free slot, mirroring the original
	// library's EAGAIN.
	ErrAgain = fmt.Errorf("thpool: max retries exhausted: %w", iox.ErrWouldBlock)
)

// IsWouldBlock reports whether err signals a transient, retryable
// condition such as a full queue, rather than a terminal failure.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control-flow signal rather than a
// failure, such as ErrQueueFull/ErrAgain. ErrShutdown does not qualify:
// it is terminal, not a condition worth retrying against.
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition
// (nil or a semantic signal such as ErrQueueFull/ErrAgain).
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
