// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"math/bits"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// queue is an unbounded multi-producer single-consumer FIFO.
//
// The fast path is a bounded lock-free lfq.MPSC ring. When the ring reports
// iox.ErrWouldBlock, producers switch to the overflow list and keep using it
// until the consumer has drained it, so enqueues from one producer are never
// reordered across the two stores.
type queue[T any] struct {
	ring     lfq.MPSC[T]
	count    atomix.Int64
	spilled  atomix.Uint32
	mu       sync.Mutex
	overflow []T
}

// init allocates the ring. capacity is rounded up to a power of two.
func (q *queue[T]) init(capacity int) {
	q.ring.Init(ringSize(capacity))
}

// ringSize rounds n up to a power of two, with a floor of 2.
func ringSize(n int) int {
	if n <= 2 {
		return 2
	}
	return 1 << bits.Len(uint(n-1))
}

// enqueue appends v. Safe for concurrent producers.
func (q *queue[T]) enqueue(v T) {
	// Count first: a concurrent consumer never observes fewer entries
	// than it can dequeue.
	q.count.Add(1)
	if q.spilled.Load() == 0 {
		if err := q.ring.Enqueue(&v); err == nil {
			return
		}
	}
	q.mu.Lock()
	if q.spilled.Load() == 0 {
		if err := q.ring.Enqueue(&v); err == nil {
			q.mu.Unlock()
			return
		}
		q.spilled.Store(1)
	}
	q.overflow = append(q.overflow, v)
	q.mu.Unlock()
}

// dequeue removes the oldest element. Single consumer only.
func (q *queue[T]) dequeue() (T, bool) {
	if v, err := q.ring.Dequeue(); err == nil {
		q.count.Add(-1)
		return v, true
	}
	var zero T
	if q.spilled.Load() == 0 {
		return zero, false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.overflow) == 0 {
		q.spilled.Store(0)
		return zero, false
	}
	v := q.overflow[0]
	q.overflow[0] = zero
	q.overflow = q.overflow[1:]
	if len(q.overflow) == 0 {
		q.overflow = nil
		q.spilled.Store(0)
	}
	q.count.Add(-1)
	return v, true
}

// len reports the number of enqueued elements, including enqueues
// still in flight on other goroutines.
func (q *queue[T]) len() int {
	return int(q.count.Load())
}
