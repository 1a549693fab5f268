// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sema provides three semaphore primitives: USem (a counting
// semaphore), LSem (a lightweight semaphore with an atomic fast path and
// USem slow path), and PSem (a bare condition-variable notify wrapper).
// The worker pools in this module do not use them: LP uses sync.Mutex
// and sync.Cond directly, and LFP uses atomics and its sleep hook.
package sema
