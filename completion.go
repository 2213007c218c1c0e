// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/atomix"

// completion states
const (
	completionIdle uint32 = iota
	completionArmed
	completionEarly
	completionFired
)

// Completion resumes a microthread from outside the dispatch loop.
//
// A body suspends on it with [AwaitThen]; any goroutine then calls
// [Completion.Complete], which queues the waiting token on the scheduler's
// pending-yield queue. The microthread resumes at the next yield drain of a
// pass. A Completion is one-shot and may be awaited by one microthread.
type Completion struct {
	state atomix.Uint32
	token *tokenSource
}

// NewCompletion returns an idle Completion.
func NewCompletion() *Completion {
	return &Completion{}
}

// Complete resolves c. Safe from any goroutine.
// Reports whether this call resolved c.
func (c *Completion) Complete() bool {
	for {
		switch c.state.Load() {
		case completionIdle:
			if c.state.CompareAndSwap(completionIdle, completionEarly) {
				return true
			}
		case completionArmed:
			if c.state.CompareAndSwap(completionArmed, completionFired) {
				t := c.token
				c.token = nil
				t.sched.pending.enqueue(t)
				return true
			}
		default:
			return false
		}
	}
}

// Completed reports whether Complete was called.
func (c *Completion) Completed() bool {
	s := c.state.Load()
	return s == completionEarly || s == completionFired
}

// arm attaches the waiting token. Dispatch goroutine only.
func (c *Completion) arm(t *tokenSource) {
	if s := c.state.Load(); s == completionArmed || s == completionFired {
		panic("sched: completion awaited twice")
	}
	c.token = t
	if c.state.CompareAndSwap(completionIdle, completionArmed) {
		return
	}
	if c.state.CompareAndSwap(completionEarly, completionFired) {
		c.token = nil
		t.sched.pending.enqueue(t)
		return
	}
	panic("sched: completion awaited twice")
}
