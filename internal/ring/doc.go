// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides the bounded multi-producer/multi-consumer
// lock-free queue that backs the lock-free worker pool.
//
// The algorithm is the CAS-based sequence-number slot protocol: capacity
// is rounded up to a power of two, each slot carries an atomic sequence
// number that encodes whether the slot is free for a producer, filled
// for a consumer, or in transition. A producer holding ticket t claims a
// slot when its sequence equals t; a consumer holding ticket t claims it
// when the sequence equals t+1. This gives single-producer/single-consumer
// visibility per slot while allowing many producers and consumers
// overall, at the cost of a compare-and-swap per operation instead of a
// blind fetch-and-add.
package ring
