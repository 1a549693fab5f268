// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thpool

// Task is a single-shot, movable unit of work submitted to a pool. The
// pool takes ownership of it on submission and drops its reference once
// it returns; it is never retried or re-queued on its own. Anything a
// Task closes over whose lifetime must outlive the call is the
// submitter's responsibility, the same contract the original library's
// raw function-pointer-plus-argument pair carried.
type Task func()
