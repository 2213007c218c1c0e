// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// IntQueue exposes the internal MPSC queue to external tests.
type IntQueue struct {
	q queue[int]
}

func NewIntQueue(capacity int) *IntQueue {
	iq := &IntQueue{}
	iq.q.init(capacity)
	return iq
}

func (iq *IntQueue) Enqueue(v int)         { iq.q.enqueue(v) }
func (iq *IntQueue) Dequeue() (int, bool) { return iq.q.dequeue() }
func (iq *IntQueue) Len() int             { return iq.q.len() }

var RingSize = ringSize

// DrainTokenPool empties the shared token free list.
func DrainTokenPool() {
	for {
		if _, err := tokenPool.Dequeue(); err != nil {
			return
		}
	}
}

// SameTokenSource reports whether two handles share a pooled source.
func SameTokenSource(a, b Token) bool { return a.src == b.src }
