// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a CAS-based multi-producer multi-consumer bounded queue using
// per-slot sequence numbers for ABA-safe slot validation.
//
// Memory: n slots for capacity n (rounded up to the next power of two).
type MPMC[T any] struct {
	_        pad
	tail     atomix.Uint64 // next enqueue ticket
	_        pad
	head     atomix.Uint64 // next dequeue ticket
	_        pad
	slots    []mpmcSlot[T]
	mask     uint64
	capacity uint64
}

type mpmcSlot[T any] struct {
	seq  atomix.Uint64
	val  T
	_    padShort
}

// NewMPMC creates a bounded MPMC queue. Capacity rounds up to the next
// power of two and must be at least 2.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		slots:    make([]mpmcSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	for i := range q.slots {
		q.slots[i].seq.StoreRelaxed(uint64(i))
	}
	return q
}

// claim reserves the next ticket on counter whose slot sequence number
// equals ticket+ready, CAS-advancing counter past it. ready is 0 for a
// producer (a slot is free for writing once its sequence catches up to
// the ticket that names it) and 1 for a consumer (a slot is readable
// once its sequence is one past the ticket, i.e. just after a producer
// published into it). A negative gap between the observed sequence and
// what this role needs means the ring has no slot ready — full for a
// producer, empty for a consumer — and claim reports ErrWouldBlock
// instead of spinning forever.
func (q *MPMC[T]) claim(counter *atomix.Uint64, ready uint64) (slot *mpmcSlot[T], ticket uint64, err error) {
	spinner := spin.Wait{}
	for {
		ticket = counter.LoadAcquire()
		slot = &q.slots[ticket&q.mask]
		gap := int64(slot.seq.LoadAcquire()) - int64(ticket+ready)

		switch {
		case gap == 0:
			if counter.CompareAndSwapAcqRel(ticket, ticket+1) {
				return slot, ticket, nil
			}
		case gap < 0:
			return nil, 0, ErrWouldBlock
		}
		spinner.Once()
	}
}

// Enqueue adds an element to the queue. Returns ErrWouldBlock if full.
func (q *MPMC[T]) Enqueue(elem *T) error {
	slot, ticket, err := q.claim(&q.tail, 0)
	if err != nil {
		return err
	}
	slot.val = *elem
	slot.seq.StoreRelease(ticket + 1)
	return nil
}

// Dequeue removes and returns an element. Returns (zero, ErrWouldBlock) if
// empty.
func (q *MPMC[T]) Dequeue() (T, error) {
	slot, ticket, err := q.claim(&q.head, 1)
	if err != nil {
		var zero T
		return zero, err
	}
	val := slot.val
	var zero T
	slot.val = zero
	slot.seq.StoreRelease(ticket + q.capacity)
	return val, nil
}

// LenRelaxed returns an informational count of queued elements. The
// raw ticket difference may transiently fall outside [0, capacity]
// under concurrent mutation; the result is clamped to that range. It is
// advisory only, never used to gate correctness.
func (q *MPMC[T]) LenRelaxed() int {
	queued := int64(q.tail.LoadRelaxed() - q.head.LoadRelaxed())
	switch {
	case queued < 0:
		return 0
	case queued > int64(q.capacity):
		return int(q.capacity)
	default:
		return int(queued)
	}
}

// Delete drains any remaining elements, invoking dispose on each, before
// the queue is abandoned. Not safe to call concurrently with Enqueue or
// Dequeue.
func (q *MPMC[T]) Delete(dispose func(T)) {
	for {
		v, err := q.Dequeue()
		if err != nil {
			return
		}
		if dispose != nil {
			dispose(v)
		}
	}
}

// Cap returns the queue's physical capacity (rounded up to a power of two).
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}
